// Package discover selects the files a check run looks at.
package discover

import (
	"fmt"
	"path/filepath"
)

// DefaultPatterns are the project globs scanned in whole-project mode,
// in report order.
var DefaultPatterns = []string{
	"include/shg/*.h",
	"src/*.cc",
	"testing/*.h",
	"testing/*.cc",
	"tools/*.cc",
	"examples/*.cc",
}

// File is one selected file.
type File struct {
	Path string // path used to open the file
	Name string // path shown in diagnostics
}

// Explicit wraps user-supplied paths as given, in order.
func Explicit(paths []string) []File {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		files = append(files, File{Path: p, Name: p})
	}
	return files
}

// Glob expands each pattern under root, one directory level per pattern,
// and concatenates the matches in pattern order. Display names are
// relative to root. A pattern matching nothing is not an error.
func Glob(root string, patterns []string) ([]File, error) {
	var files []File
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			name := m
			if rel, err := filepath.Rel(root, m); err == nil {
				name = filepath.ToSlash(rel)
			}
			files = append(files, File{Path: m, Name: name})
		}
	}
	return files, nil
}

// Files picks the explicit list when it is non-empty and the project globs otherwise.
// The bool result reports whole-project mode.
func Files(root string, explicit, patterns []string) ([]File, bool, error) {
	if len(explicit) > 0 {
		return Explicit(explicit), false, nil
	}
	files, err := Glob(root, patterns)
	if err != nil {
		return nil, true, err
	}
	return files, true, nil
}

// Paths returns the open paths of files.
func Paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
