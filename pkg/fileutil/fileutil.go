package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no entry matches, ignoring case.
var ErrNotFound = errors.New("file not found")

// FindFileCaseInsensitive searches dir on disk for filename, ignoring case.
//
// Example:
//
//	path, err := FindFileCaseInsensitive("/data/scene", "Life00.BIN")
//	// finds "LIFE00.BIN", "life00.bin", ...
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	if name, ok := match(entries, filename); ok {
		return filepath.Join(dir, name), nil
	}
	return "", fmt.Errorf("%w: %s (searched in %s)", ErrNotFound, filename, dir)
}

// FindFileCaseInsensitiveFS is FindFileCaseInsensitive over an fs.FS. The
// returned path uses forward slashes.
func FindFileCaseInsensitiveFS(fsys fs.FS, dir, filename string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	if name, ok := match(entries, filename); ok {
		if dir == "." || dir == "" {
			return name, nil
		}
		return dir + "/" + name, nil
	}
	return "", fmt.Errorf("%w: %s (searched in %s)", ErrNotFound, filename, dir)
}

func match(entries []fs.DirEntry, filename string) (string, bool) {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(entry.Name(), filename) {
			return entry.Name(), true
		}
	}
	return "", false
}
