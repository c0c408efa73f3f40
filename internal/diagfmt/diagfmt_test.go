package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"srccheck/internal/diag"
	"srccheck/internal/lint"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(3)
	bag.Add(diag.New(diag.StyLineTooLong, "src/a.cc", 12))
	bag.Add(diag.New(diag.StyNonASCIIByte, "src/a.cc", 0))
	bag.Add(diag.New(diag.PrjInconsistentVersion, "", 0))
	return bag
}

func TestTextWriter(t *testing.T) {
	tests := []struct {
		name string
		opts TextOpts
		want string
	}{
		{
			name: "text",
			want: "src/a.cc:12: line too long\nsrc/a.cc: non-ASCII character\ninconsistent version numbers\nThere were errors\n",
		},
		{
			name: "short",
			opts: TextOpts{Short: true},
			want: "src/a.cc:12: S1001 line too long\nsrc/a.cc: S1012 non-ASCII character\nP2001 inconsistent version numbers\nThere were errors\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tw := NewTextWriter(&buf, tt.opts)
			if err := tw.WriteAll(sampleBag()); err != nil {
				t.Fatal(err)
			}
			if err := tw.Summary(true); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), tt.want)
			}
			if tw.Count() != 3 {
				t.Fatalf("Count = %d", tw.Count())
			}
		})
	}
}

func TestTextWriterColor(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTextWriter(&buf, TextOpts{Color: true})
	tw.Report(diag.New(diag.StyTab, "a.cc", 3))
	if !strings.Contains(buf.String(), "\x1b[") || !strings.Contains(buf.String(), "tab found") {
		t.Fatalf("expected colored output, got %q", buf.String())
	}
}

func TestNoSummaryOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTextWriter(&buf, TextOpts{})
	if err := tw.Summary(false); err != nil || buf.Len() != 0 {
		t.Fatalf("Summary(false) wrote %q, %v", buf.String(), err)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	outcome := lint.Outcome{ExitCode: 1, Err: errors.New("cpplint exited with status 1")}
	if err := JSON(&buf, sampleBag(), outcome); err != nil {
		t.Fatal(err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 3 || !out.Failed || out.Lint.Passed || out.Lint.ExitCode != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	first := out.Diagnostics[0]
	if first.Code != "S1001" || first.Path != "src/a.cc" || first.Line != 12 || first.Message != "line too long" {
		t.Fatalf("unexpected first diagnostic %+v", first)
	}
	if out.Diagnostics[2].Path != "" || out.Diagnostics[2].Code != "P2001" {
		t.Fatalf("unexpected global diagnostic %+v", out.Diagnostics[2])
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "short", "json"} {
		f, err := ParseFormat(name)
		if err != nil || f.String() != name {
			t.Fatalf("ParseFormat(%q) = %v, %v", name, f, err)
		}
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Fatal("expected error")
	}
}
