package rules

import (
	"srccheck/internal/diag"
	"srccheck/internal/source"
)

// ScanBytes reports one file-level diagnostic if any byte is above 127.
// Offending bytes are not enumerated.
func ScanBytes(path string, content []byte, r diag.Reporter) {
	for _, b := range content {
		if b > 127 {
			diag.ReportCode(r, diag.StyNonASCIIByte, path, 0)
			return
		}
	}
}

// ScanFile runs the text scanner and then the binary scanner over f,
// reporting under the display path.
func ScanFile(path string, f *source.File, r diag.Reporter, opts Options) {
	ScanText(path, f.Lines, r, opts)
	ScanBytes(path, f.Content, r)
}
