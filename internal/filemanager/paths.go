package filemanager

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateRelPath rejects paths that are absolute or could escape a directory.
func ValidateRelPath(name string) error {
	if name == "" {
		return fmt.Errorf("empty path")
	}
	cleaned := filepath.Clean(name)
	if cleaned != name || filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid path: %q", name)
	}
	return nil
}

// SafeJoin joins rel onto base and checks the result stays inside base.
func SafeJoin(base, rel string) (string, error) {
	if err := ValidateRelPath(rel); err != nil {
		return "", err
	}
	joined := filepath.Join(base, rel)

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absJoined, absBase+string(filepath.Separator)) && absJoined != absBase {
		return "", fmt.Errorf("path %q escapes base directory %q", rel, base)
	}
	return joined, nil
}
