package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover resolves include glob patterns against root and returns the
// union of matches as absolute paths, minus anything matching an exclude
// pattern. Order follows pattern-encounter order; a path matched by two
// include patterns appears twice - callers tolerate repeats. A malformed
// pattern fails the whole call with no partial results.
func Discover(root string, include, exclude []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	fsys := os.DirFS(absRoot)
	var files []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			info, err := fs.Stat(fsys, match)
			if err != nil || info.IsDir() {
				continue
			}
			excluded, err := matchesAny(exclude, match)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
			files = append(files, filepath.Join(absRoot, filepath.FromSlash(match)))
		}
	}

	return files, nil
}

func matchesAny(patterns []string, relPath string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
