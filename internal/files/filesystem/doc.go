// Package filesystem provides the file access and glob expansion used by the
// fixture reader.
//
// Key interfaces:
//   - FileSystemProvider: reads files and expands glob patterns
//   - FileInfo: file metadata (alias of fs.FileInfo)
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - FSFileSystem: any fs.FS, typically an embed.FS with bundled fixtures
//   - MemoryFileSystem: in-memory implementation for testing
//
// All implementations expand patterns with doublestar, so "**" matches any
// number of directories, and return matches in lexical order. Entries whose
// name starts with a dot are only matched by a pattern segment that starts
// with a dot too, so editor swap files and .DS_Store never become fixtures.
package filesystem
