package diag

import "fmt"

// Diagnostic is one reported rule violation.
// Line 0 marks a file-level violation, an empty Path a global one.
type Diagnostic struct {
	Code    Code
	Path    string
	Line    uint32
	Message string
}

// New builds a diagnostic carrying the code's default message.
func New(code Code, path string, line uint32) Diagnostic {
	return Diagnostic{Code: code, Path: path, Line: line, Message: code.Message()}
}

// Location renders the path/line prefix, empty for global diagnostics.
func (d Diagnostic) Location() string {
	switch {
	case d.Path == "":
		return ""
	case d.Line == 0:
		return d.Path
	default:
		return fmt.Sprintf("%s:%d", d.Path, d.Line)
	}
}

// String renders "path:line: message", "path: message" or "message".
func (d Diagnostic) String() string {
	loc := d.Location()
	if loc == "" {
		return d.Message
	}
	return loc + ": " + d.Message
}
