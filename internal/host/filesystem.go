package host

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem exposes the filesystem primitives the host layer depends on.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (fs.File, error)
	Abs(path string) (string, error)
	EvalSymlinks(path string) (string, error)
	Symlink(targetPath string, linkPath string) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Open opens a file for reading.
func (OSFileSystem) Open(path string) (fs.File, error) {
	return os.Open(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// EvalSymlinks resolves symbolic links in the provided path.
func (OSFileSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// Symlink creates linkPath pointing at targetPath.
func (OSFileSystem) Symlink(targetPath string, linkPath string) error {
	return os.Symlink(targetPath, linkPath)
}
