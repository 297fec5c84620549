package filemanager

import (
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// VerifyResult contains the results of a verification check.
type VerifyResult struct {
	OK       bool
	Checked  int
	Missing  []string
	Modified []string
}

// VerifyGenerated compares files under projectDir with the hashes recorded
// when they were generated. Paths in the result are sorted.
func VerifyGenerated(fsys afero.Fs, projectDir string, expected map[string]string) VerifyResult {
	files := make([]string, 0, len(expected))
	for f := range expected {
		files = append(files, f)
	}
	sort.Strings(files)

	result := VerifyResult{OK: true}
	for _, f := range files {
		result.Checked++
		path := filepath.Join(projectDir, f)
		if exists, _ := afero.Exists(fsys, path); !exists {
			result.Missing = append(result.Missing, f)
			result.OK = false
			continue
		}

		actual, err := HashFile(fsys, path)
		if err != nil || actual != expected[f] {
			result.Modified = append(result.Modified, f)
			result.OK = false
		}
	}
	return result
}
