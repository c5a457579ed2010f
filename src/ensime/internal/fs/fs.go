// Package fs wraps the filesystem operations used by the client: the
// per-session scratch directory that collects patch reject files, and reads
// of server-written artifacts such as refactoring diffs.
package fs

import (
	"os"
	"path/filepath"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ClientFS wraps the filesystem operations used by the ensime client.
type ClientFS interface {
	// ScratchDir creates a fresh temporary directory with the given prefix.
	ScratchDir(prefix string) (string, error)
	// RemoveAll deletes a directory tree. Missing paths are not an error.
	RemoveAll(path string) error
	ReadFile(name string) ([]byte, error)
	Base(path string) string
}

type fsImpl struct{}

// New creates a new ClientFS.
func New() ClientFS {
	return fsImpl{}
}

func (fsImpl) ScratchDir(prefix string) (string, error) {
	return os.MkdirTemp("", prefix)
}

func (fsImpl) RemoveAll(path string) error { return os.RemoveAll(path) }

func (fsImpl) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (fsImpl) Base(path string) string { return filepath.Base(path) }
