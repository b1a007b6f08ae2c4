package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// FileSystemProvider is the read-only view of a filesystem the fixture reader works against.
type FileSystemProvider interface {
	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// Glob returns the regular files matching pattern, in lexical order.
	// A pattern without metacharacters matches itself if the file exists.
	// Wildcards never match dotfiles or dot-directories (see IsHiddenMatch).
	// Zero matches is not an error.
	Glob(pattern string) ([]string, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
