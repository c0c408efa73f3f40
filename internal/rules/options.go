package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DefaultMaxLineLength is the longest line accepted without a violation.
const DefaultMaxLineLength = 70

// LengthMode selects how line length is measured.
type LengthMode uint8

const (
	// LengthRunes counts Unicode code points.
	LengthRunes LengthMode = iota
	// LengthCells counts terminal display cells (wide characters count twice).
	LengthCells
)

func (m LengthMode) String() string {
	switch m {
	case LengthRunes:
		return "runes"
	case LengthCells:
		return "cells"
	default:
		return "unknown"
	}
}

// ParseLengthMode converts a config value into a LengthMode.
func ParseLengthMode(s string) (LengthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "runes":
		return LengthRunes, nil
	case "cells":
		return LengthCells, nil
	default:
		return LengthRunes, fmt.Errorf("invalid length mode %q (expected runes|cells)", s)
	}
}

// Options tunes the text scanner.
type Options struct {
	MaxLineLength int
	LengthMode    LengthMode
}

// DefaultOptions returns the canonical rule set configuration.
func DefaultOptions() Options {
	return Options{MaxLineLength: DefaultMaxLineLength, LengthMode: LengthRunes}
}

// Fingerprint identifies the options in cache keys.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("max=%d;mode=%s", o.MaxLineLength, o.LengthMode)
}

func (o Options) lineLength(line string) int {
	if o.LengthMode == LengthCells {
		return runewidth.StringWidth(line)
	}
	return utf8.RuneCountInString(line)
}
