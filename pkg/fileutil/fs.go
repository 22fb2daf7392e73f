// Package fileutil provides unified, case-insensitive access to real and
// in-memory file systems. Original game data ships with inconsistent file
// name casing, so every lookup falls back to a case-insensitive match.
package fileutil

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem is the read-only file access used by the loaders.
type FileSystem interface {
	// Open opens name, ignoring case.
	Open(name string) (fs.File, error)
	// ReadFile reads name, ignoring case.
	ReadFile(name string) ([]byte, error)
	// BasePath returns the root the names are resolved against.
	BasePath() string
}

// RealFS resolves names against a directory on disk.
type RealFS struct {
	basePath string
}

// NewRealFS creates a FileSystem rooted at basePath. An empty basePath
// resolves names relative to the working directory.
func NewRealFS(basePath string) *RealFS {
	return &RealFS{basePath: basePath}
}

func (r *RealFS) Open(name string) (fs.File, error) {
	p, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (r *RealFS) ReadFile(name string) ([]byte, error) {
	p, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (r *RealFS) BasePath() string {
	return r.basePath
}

func (r *RealFS) resolve(name string) (string, error) {
	clean := trimRoot(name)
	p := clean
	if r.basePath != "" && !filepath.IsAbs(clean) {
		p = filepath.Join(r.basePath, clean)
	}
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return FindFileCaseInsensitive(filepath.Dir(p), filepath.Base(p))
}

// SubFS resolves names inside an fs.FS (embed.FS, fstest.MapFS, os.DirFS).
type SubFS struct {
	fsys     fs.FS
	basePath string
}

// NewSubFS creates a FileSystem over fsys rooted at basePath ("" or ".").
func NewSubFS(fsys fs.FS, basePath string) *SubFS {
	return &SubFS{fsys: fsys, basePath: basePath}
}

func (e *SubFS) Open(name string) (fs.File, error) {
	p, err := e.resolve(name)
	if err != nil {
		return nil, err
	}
	return e.fsys.Open(p)
}

func (e *SubFS) ReadFile(name string) ([]byte, error) {
	p, err := e.resolve(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(e.fsys, p)
}

func (e *SubFS) BasePath() string {
	return e.basePath
}

func (e *SubFS) resolve(name string) (string, error) {
	clean := strings.ReplaceAll(trimRoot(name), "\\", "/")
	p := clean
	if e.basePath != "" && e.basePath != "." {
		p = path.Join(e.basePath, clean)
	}
	if f, err := e.fsys.Open(p); err == nil {
		f.Close()
		return p, nil
	}
	return FindFileCaseInsensitiveFS(e.fsys, path.Dir(p), path.Base(p))
}

// trimRoot strips a leading "/" or "\" so names are always relative.
func trimRoot(name string) string {
	return strings.TrimPrefix(strings.TrimPrefix(name, "/"), "\\")
}
