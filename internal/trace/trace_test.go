package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePhase, "scan", 0)
	Point(tr, ScopeFile, "file:a.cc", "", span.ID())
	Error(tr, ScopeFile, "file:b.cc", errors.New("boom"), span.ID())
	span.End("2 files")

	out := buf.String()
	if !strings.Contains(out, "→ scan") || !strings.Contains(out, "← scan (2 files)") {
		t.Fatalf("phase span missing:\n%s", out)
	}
	if strings.Contains(out, "a.cc") {
		t.Fatalf("file events must be filtered at phase level:\n%s", out)
	}
	if !strings.Contains(out, "! file:b.cc (boom)") {
		t.Fatalf("errors pass every level:\n%s", out)
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeDebug, "cache", "hit", 0)
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid ndjson %q: %v", buf.String(), err)
	}
	if ev["name"] != "cache" || ev["detail"] != "hit" || ev["kind"] != "point" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if d := Begin(tr, ScopeRun, "run", 0).End(""); d != 0 {
		t.Fatalf("nop span must not measure, got %v", d)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer lost in context")
	}
	span := Begin(tr, ScopeRun, "run", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("CurrentSpan = %d, want %d", CurrentSpan(ctx), span.ID())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
}
