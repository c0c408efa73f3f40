package diagfmt

import (
	"io"

	"github.com/fatih/color"

	"srccheck/internal/diag"
)

// FailureMessage is printed after the diagnostics of a failed run.
const FailureMessage = "There were errors"

// TextWriter prints one line per diagnostic and implements diag.Reporter,
// so it can receive diagnostics as the checker emits them.
type TextWriter struct {
	w     io.Writer
	opts  TextOpts
	loc   *color.Color
	code  *color.Color
	msg   *color.Color
	fail  *color.Color
	count int
	err   error
}

// NewTextWriter returns a writer for w. Colors are only used with opts.Color.
func NewTextWriter(w io.Writer, opts TextOpts) *TextWriter {
	tw := &TextWriter{
		w:    w,
		opts: opts,
		loc:  color.New(color.Bold),
		code: color.New(color.FgYellow),
		msg:  color.New(color.FgRed),
		fail: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{tw.loc, tw.code, tw.msg, tw.fail} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return tw
}

// Report writes d. The first write error is kept and later writes are dropped.
func (tw *TextWriter) Report(d diag.Diagnostic) {
	if tw.err != nil {
		return
	}
	line := ""
	if loc := d.Location(); loc != "" {
		line = tw.loc.Sprint(loc) + ": "
	}
	if tw.opts.Short {
		line += tw.code.Sprint(d.Code.ID()) + " "
	}
	line += tw.msg.Sprint(d.Message) + "\n"
	_, tw.err = io.WriteString(tw.w, line)
	tw.count++
}

// WriteAll writes every diagnostic of bag in order.
func (tw *TextWriter) WriteAll(bag *diag.Bag) error {
	for _, d := range bag.Items() {
		tw.Report(d)
	}
	return tw.err
}

// Summary writes the failure line when failed is set.
func (tw *TextWriter) Summary(failed bool) error {
	if tw.err != nil || !failed {
		return tw.err
	}
	_, tw.err = io.WriteString(tw.w, tw.fail.Sprint(FailureMessage)+"\n")
	return tw.err
}

// Count returns the number of diagnostics written so far.
func (tw *TextWriter) Count() int { return tw.count }

// Err returns the first write error.
func (tw *TextWriter) Err() error { return tw.err }
