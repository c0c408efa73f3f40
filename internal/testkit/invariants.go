// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"srccheck/internal/diag"
	"srccheck/internal/source"
)

// CheckScanInvariants verifies the diagnostics of one scanned file:
// 1) every diagnostic names the file and a known rule
// 2) line numbers are within the file and never decrease
// 3) the byte rule fires once, and only when a byte above 127 exists
func CheckScanInvariants(path string, f *source.File, ds []diag.Diagnostic) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	lineCount, err := safecast.Conv[uint32](f.LineCount())
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}

	// 1) and 2)
	var prevLine uint32
	byteRule := 0
	for i, d := range ds {
		if d.Path != path {
			return fmt.Errorf("diagnostic %d: path %q, want %q", i, d.Path, path)
		}
		if d.Message == diag.UnknownCode.Message() {
			return fmt.Errorf("diagnostic %d: unknown code %d", i, d.Code)
		}
		if d.Code == diag.StyNonASCIIByte {
			byteRule++
			continue
		}
		if d.Line == 0 || d.Line > lineCount {
			return fmt.Errorf("diagnostic %d: line %d outside 1..%d", i, d.Line, lineCount)
		}
		if d.Line < prevLine {
			return fmt.Errorf("diagnostic %d: line %d after line %d", i, d.Line, prevLine)
		}
		prevLine = d.Line
	}

	// 3)
	hasHigh := false
	for _, b := range f.Content {
		if b > 127 {
			hasHigh = true
			break
		}
	}
	switch {
	case byteRule > 1:
		return fmt.Errorf("byte rule reported %d times", byteRule)
	case hasHigh && byteRule == 0:
		return fmt.Errorf("byte above 127 not reported")
	case !hasHigh && byteRule == 1:
		return fmt.Errorf("byte rule reported for ASCII content")
	}
	return nil
}
