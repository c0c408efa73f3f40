// Package vercheck cross-checks the library version recorded in several
// project files.
package vercheck

import (
	"fmt"
	"path/filepath"
	"regexp"

	"srccheck/internal/diag"
	"srccheck/internal/source"
)

// Source names a file and the pattern whose first capture group is the version.
type Source struct {
	Path    string // relative to the project root
	Pattern *regexp.Regexp
}

// DefaultSources returns the version header, the Doxygen configuration and the README.
func DefaultSources() []Source {
	return []Source{
		{
			Path:    "include/shg/version.h",
			Pattern: regexp.MustCompile(`#define +SHG_VERSION +"([0-9.]+)"\s*$`),
		},
		{
			Path:    "doc/Doxyfile",
			Pattern: regexp.MustCompile(`PROJECT_NUMBER += +([0-9.]+)\s*$`),
		},
		{
			Path:    "README",
			Pattern: regexp.MustCompile(`This directory contains the ([0-9.]+) release of the library.`),
		},
	}
}

// Versions holds the token extracted from each source, in source order.
// An empty value means the pattern matched no line.
type Versions struct {
	Sources []Source
	Values  []string
}

// Consistent reports whether every value is present and all are equal.
func (v Versions) Consistent() bool {
	if len(v.Values) == 0 {
		return false
	}
	first := v.Values[0]
	for _, val := range v.Values {
		if val == "" || val != first {
			return false
		}
	}
	return true
}

// Extract reads every source under root and takes the version from its
// first matching line. Unreadable or undecodable files are errors.
func Extract(root string, sources []Source) (Versions, error) {
	out := Versions{Sources: sources, Values: make([]string, len(sources))}
	for i, src := range sources {
		if src.Pattern == nil {
			return Versions{}, fmt.Errorf("version source %s has no pattern", src.Path)
		}
		path := src.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, filepath.FromSlash(path))
		}
		f, err := source.ReadFile(path)
		if err != nil {
			return Versions{}, fmt.Errorf("read version source: %w", err)
		}
		out.Values[i] = FirstMatch(f.Lines, src.Pattern)
	}
	return out, nil
}

// FirstMatch returns the first capture group of the first matching line.
func FirstMatch(lines []string, re *regexp.Regexp) string {
	for _, line := range lines {
		if m := re.FindStringSubmatch(line); m != nil {
			if len(m) > 1 {
				return m[1]
			}
			return ""
		}
	}
	return ""
}

// Check reports one global diagnostic when the versions disagree.
func Check(v Versions, r diag.Reporter) bool {
	if v.Consistent() {
		return true
	}
	diag.ReportCode(r, diag.PrjInconsistentVersion, "", 0)
	return false
}

// Run extracts and checks in one step.
func Run(root string, sources []Source, r diag.Reporter) (Versions, error) {
	v, err := Extract(root, sources)
	if err != nil {
		return Versions{}, err
	}
	Check(v, r)
	return v, nil
}
