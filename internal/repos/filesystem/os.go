// Package filesystem provides the operating system backed implementation of shared.FileSystem.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem satisfies shared.FileSystem with direct os and filepath calls.
type OSFileSystem struct{}

// Stat returns metadata for path.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Rename moves oldPath to newPath.
func (OSFileSystem) Rename(oldPath string, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Abs makes path absolute against the working directory.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// MkdirAll creates path and any missing parents with permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}
