package diagfmt

import "fmt"

// Format selects how diagnostics are written.
type Format uint8

const (
	// FormatText prints "path:line: message" lines.
	FormatText Format = iota
	// FormatShort adds the rule code before the message.
	FormatShort
	// FormatJSON prints one JSON document after the run.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatShort:
		return "short"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ParseFormat parses a --format value.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return FormatText, nil
	case "short":
		return FormatShort, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown format %q (want text|short|json)", s)
	}
}

// Streaming reports whether diagnostics are written as they are emitted.
func (f Format) Streaming() bool {
	return f != FormatJSON
}

// TextOpts configures the line-oriented formats.
type TextOpts struct {
	Color bool
	Short bool // prefix the message with the rule code
}
