// Package filex contains small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteScratch writes content to a file inside a fresh temporary directory
// and returns the file path together with a cleanup function that removes
// the whole directory. The caller must invoke cleanup.
func WriteScratch(pattern, name string, content []byte) (string, func(), error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("mkdtemp: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write %s: %w", path, err)
	}

	return path, cleanup, nil
}
