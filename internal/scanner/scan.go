// Package scanner finds workbooks to audit in an inbox directory, once or
// continuously.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Scan returns the absolute paths of the files under dir matching any of
// patterns and none of exclude. Patterns are doublestar globs relative to
// dir. The result is sorted and free of duplicates.
func Scan(dir string, patterns, exclude []string) ([]string, error) {
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("scan failed: %s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("scan failed: pattern %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if seen[rel] || Excluded(rel, exclude) {
				continue
			}
			seen[rel] = true
			files = append(files, filepath.Join(dir, filepath.FromSlash(rel)))
		}
	}

	slices.Sort(files)
	return files, nil
}

// Excluded reports whether a relative path matches one of the exclude
// patterns.
func Excluded(rel string, exclude []string) bool {
	return Matches(rel, exclude)
}

// Matches reports whether a relative path matches any of patterns.
func Matches(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(pattern), rel); ok {
			return true
		}
	}
	return false
}
