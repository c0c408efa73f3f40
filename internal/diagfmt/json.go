package diagfmt

import (
	"encoding/json"
	"io"

	"srccheck/internal/diag"
	"srccheck/internal/lint"
)

// DiagnosticJSON is one violation in JSON output.
type DiagnosticJSON struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Line    uint32 `json:"line,omitempty"`
	Message string `json:"message"`
}

// LintJSON is the observed lint outcome.
type LintJSON struct {
	Passed   bool     `json:"passed"`
	Skipped  bool     `json:"skipped,omitempty"`
	ExitCode int      `json:"exit_code"`
	Argv     []string `json:"argv,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Output is the root of the JSON document.
type Output struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Lint        LintJSON         `json:"lint"`
	Failed      bool             `json:"failed"`
}

// BuildOutput assembles the JSON document without serializing it.
func BuildOutput(bag *diag.Bag, outcome lint.Outcome) Output {
	items := bag.Items()
	out := Output{
		Diagnostics: make([]DiagnosticJSON, len(items)),
		Count:       len(items),
		Lint: LintJSON{
			Passed:   outcome.Passed(),
			Skipped:  outcome.Skipped,
			ExitCode: outcome.ExitCode,
			Argv:     outcome.Argv,
		},
	}
	if outcome.Err != nil {
		out.Lint.Error = outcome.Err.Error()
	}
	for i, d := range items {
		out.Diagnostics[i] = DiagnosticJSON{
			Code:    d.Code.ID(),
			Path:    d.Path,
			Line:    d.Line,
			Message: d.Message,
		}
	}
	out.Failed = out.Count > 0 || !out.Lint.Passed
	return out
}

// JSON writes the diagnostics of a finished run as an indented document.
func JSON(w io.Writer, bag *diag.Bag, outcome lint.Outcome) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(bag, outcome))
}
