// Package fs is the filesystem boundary of the reiter CLI.
//
// Commands receive an [FS] instead of calling [os] directly, so every file
// the CLI touches goes through one place. Writes are always atomic: a reader
// sees either the old file or the complete new one.
package fs

import (
	"io"
	"os"
)

// FS lists the filesystem operations reiter performs.
type FS interface {
	// Open opens path for reading.
	Open(path string) (io.ReadCloser, error)

	// ReadFile returns the whole content of path.
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces path with data and sets perm on the result.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// Exists reports whether path exists. A missing path is (false, nil).
	Exists(path string) (bool, error)
}

var _ FS = Real{}
