package domain

import (
	"os"
)

// FileSystemAdapter defines the file operations of the config repository,
// the lease files and the session files.
type FileSystemAdapter interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	// CreateExclusive creates path with data, failing with os.ErrExist if it exists.
	CreateExclusive(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	Stat(path string) (os.FileInfo, error)
	// Chmod changes the permissions of path. WriteFile keeps those of an existing file.
	Chmod(path string, perm os.FileMode) error
	UserHomeDir() (string, error)
	UserCacheDir() (string, error)
	TempDir() string
}
