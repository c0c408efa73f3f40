package diag

// Reporter is the minimal contract for receiving diagnostics from checks.
// Implementations: BagReporter (stores into a Bag) and MultiReporter (fan-out).
type Reporter interface {
	Report(d Diagnostic)
}

// ReportCode emits a diagnostic with the code's default message.
func ReportCode(r Reporter, code Code, path string, line uint32) {
	if r == nil {
		return
	}
	r.Report(New(code, path, line))
}

// BagReporter writes into *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// MultiReporter forwards each diagnostic to every non-nil reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}
