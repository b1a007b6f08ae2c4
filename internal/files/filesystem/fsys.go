package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FSFileSystem implements FileSystemProvider on top of an fs.FS.
// Paths follow fs.FS rules: slash-separated and unrooted.
type FSFileSystem struct {
	fsys fs.FS
}

// NewFSFileSystem wraps fsys. If root is not "." or empty, paths resolve
// inside that subdirectory, so an embed.FS holding "testdata/fixtures/..." can
// be addressed as "fixtures/...".
func NewFSFileSystem(fsys fs.FS, root string) (*FSFileSystem, error) {
	if fsys == nil {
		return nil, fmt.Errorf("fs.FS cannot be nil")
	}

	root = path.Clean(strings.ReplaceAll(root, "\\", "/"))
	if root != "." && root != "" {
		sub, err := fs.Sub(fsys, root)
		if err != nil {
			return nil, fmt.Errorf("failed to open root %s: %w", root, err)
		}
		fsys = sub
	}

	return &FSFileSystem{fsys: fsys}, nil
}

func (p *FSFileSystem) ReadFile(filePath string) ([]byte, error) {
	return fs.ReadFile(p.fsys, normalizeFSPath(filePath))
}

func (p *FSFileSystem) Glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(p.fsys, normalizeFSPath(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return visibleMatches(pattern, matches), nil
}

func (p *FSFileSystem) Stat(filePath string) (FileInfo, error) {
	return fs.Stat(p.fsys, normalizeFSPath(filePath))
}

// normalizeFSPath converts OS-style input into an fs.FS path.
func normalizeFSPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}
