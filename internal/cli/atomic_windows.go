//go:build windows

package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path. Windows has no atomic replace through
// renameio, so the file is written in place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
