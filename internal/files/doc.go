// Package files groups file access used by fixture readers.
//
// The filesystem sub-package abstracts reading and globbing so that fixture
// sets can come from the OS, an fs.FS (for example go:embed) or memory:
//
//	import "github.com/vvka-141/dbseed/internal/files/filesystem"
//
//	fsys := filesystem.NewMemoryFileSystem("/fixtures")
//	fsys.AddFile("users.json", `[{"table": "users", "data": {"id": 1}}]`)
//	matches, err := fsys.Glob("*.json")
package files
