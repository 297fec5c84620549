package filemanager

import (
	"crypto/sha256"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// HashBytes computes the SHA256 hash of a byte slice.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", h)
}

// HashFile computes the SHA256 hash of a file.
func HashFile(fsys afero.Fs, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HashFiles computes per-file hashes for files relative to root.
func HashFiles(fsys afero.Fs, root string, files []string) (map[string]string, error) {
	hashes := make(map[string]string, len(files))
	for _, f := range files {
		h, err := HashFile(fsys, filepath.Join(root, f))
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", f, err)
		}
		hashes[f] = h
	}
	return hashes, nil
}

// TreeHash computes a deterministic hash over a set of per-file hashes.
// Paths are sorted and each path + hash is fed to the digest.
func TreeHash(hashes map[string]string) string {
	files := make([]string, 0, len(hashes))
	for f := range hashes {
		files = append(files, f)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, f := range files {
		fmt.Fprintf(h, "file:%s\n%s\n", f, hashes[f])
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil))
}
