package filesystem

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IsHiddenMatch reports whether match reaches a dotfile or dot-directory
// through a wildcard. A dot segment is visible only when some pattern segment
// that itself starts with a dot matches it, so "fixtures/*" skips .DS_Store
// while "fixtures/.*" and "fixtures/.seed/*.json" still select dot entries.
func IsHiddenMatch(pattern, match string) bool {
	var dotSegments []string
	for _, seg := range splitSegments(pattern) {
		if isDotSegment(seg) {
			dotSegments = append(dotSegments, seg)
		}
	}

	for _, seg := range splitSegments(match) {
		if !isDotSegment(seg) {
			continue
		}
		if !matchesAny(dotSegments, seg) {
			return true
		}
	}
	return false
}

// visibleMatches filters out the matches IsHiddenMatch rejects, keeping order.
func visibleMatches(pattern string, matches []string) []string {
	visible := matches[:0]
	for _, m := range matches {
		if !IsHiddenMatch(pattern, m) {
			visible = append(visible, m)
		}
	}
	return visible
}

func splitSegments(p string) []string {
	return strings.Split(filepath.ToSlash(p), "/")
}

// isDotSegment excludes the "." and ".." path elements.
func isDotSegment(seg string) bool {
	return strings.HasPrefix(seg, ".") && seg != "." && seg != ".."
}

func matchesAny(patterns []string, seg string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, seg); err == nil && ok {
			return true
		}
	}
	return false
}
