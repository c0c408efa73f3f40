package checker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"srccheck/internal/cache"
	"srccheck/internal/diag"
	"srccheck/internal/lint"
	"srccheck/internal/rules"
	"srccheck/internal/source"
	"srccheck/internal/vercheck"
)

type fakeLint struct {
	calls int
	dir   string
	files []string
	exit  int
}

func (f *fakeLint) Run(_ context.Context, dir string, files []string) lint.Outcome {
	f.calls++
	f.dir = dir
	f.files = append([]string(nil), files...)
	out := lint.Outcome{ExitCode: f.exit}
	if f.exit != 0 {
		out.Err = fmt.Errorf("lint exited with status %d", f.exit)
	}
	return out
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func versionFiles(header, doxy, readme string) map[string]string {
	return map[string]string{
		"include/shg/version.h": "#define SHG_VERSION \"" + header + "\"\n",
		"doc/Doxyfile":          "PROJECT_NUMBER = " + doxy + "\n",
		"README":                "This directory contains the " + readme + " release of the library.\n",
	}
}

func newRequest(root string, fl *fakeLint) (Request, *diag.Bag) {
	stream := diag.NewBag(0)
	return Request{
		Root:           root,
		Rules:          rules.DefaultOptions(),
		VersionCheck:   true,
		VersionSources: vercheck.DefaultSources(),
		Lint:           fl,
		Jobs:           1,
		Reporter:       diag.BagReporter{Bag: stream},
	}, stream
}

func locations(ds []diag.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

func TestWholeProject(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, versionFiles("3.2", "3.1", "3.2"))
	writeFiles(t, root, map[string]string{
		"src/a.cc":   "int x; \n",
		"src/b.cc":   "int y;\nx\ty;\n",
		"tools/c.cc": "int z;\n",
	})
	fl := &fakeLint{}
	req, stream := newRequest(root, fl)

	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{
		"src/a.cc:1: line ends with white space",
		"src/b.cc:2: tab found",
		"inconsistent version numbers",
	}
	if got := locations(stream.Items()); !reflect.DeepEqual(got, want) {
		t.Fatalf("diagnostics = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(res.Bag.Items(), stream.Items()) {
		t.Fatal("result bag and stream disagree")
	}
	if !res.WholeProject || !res.VersionChecked || res.Count() != 3 || !res.Failed() {
		t.Fatalf("unexpected result %+v", res)
	}
	if fl.calls != 1 || fl.dir != root || !reflect.DeepEqual(fl.files, []string{"include/shg/version.h", "src/a.cc", "src/b.cc", "tools/c.cc"}) {
		t.Fatalf("lint called with dir=%q files=%v (%d calls)", fl.dir, fl.files, fl.calls)
	}
	if len(res.Timings.Phases) != 4 {
		t.Fatalf("expected 4 timed phases, got %+v", res.Timings.Phases)
	}
	if res.Sources.Len() != len(res.Files) {
		t.Fatalf("expected %d loaded sources, got %d", len(res.Files), res.Sources.Len())
	}
	for i := 0; i < res.Sources.Len(); i++ {
		if f := res.Sources.Get(source.FileID(i)); len(f.Lines) == 0 || f.Hash == [32]byte{} {
			t.Fatalf("source %d not decoded: %+v", i, f)
		}
	}
}

func TestExplicitFilesSkipVersionCheck(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, versionFiles("3.2", "3.1", "3.2"))
	writeFiles(t, root, map[string]string{"src/a.cc": "int x;\n"})
	fl := &fakeLint{}
	req, stream := newRequest(root, fl)
	path := filepath.Join(root, "src", "a.cc")
	req.Files = []string{path}

	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.WholeProject || res.VersionChecked || stream.Len() != 0 || res.Failed() {
		t.Fatalf("unexpected result %+v, diagnostics %v", res, stream.Items())
	}
	if fl.dir != "" || !reflect.DeepEqual(fl.files, []string{path}) {
		t.Fatalf("lint called with dir=%q files=%v", fl.dir, fl.files)
	}
}

func TestLintFailureFailsRun(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.cc": "int x;\n"})
	fl := &fakeLint{exit: 1}
	req, _ := newRequest(root, fl)
	req.Files = []string{filepath.Join(root, "a.cc")}

	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Count() != 0 || !res.Failed() || res.Lint.ExitCode != 1 {
		t.Fatalf("lint failure must fail the run: %+v", res)
	}
}

func TestNoLintRunnerPasses(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.cc": "int x;\n"})
	req, _ := newRequest(root, nil)
	req.Lint = nil
	req.Files = []string{filepath.Join(root, "a.cc")}

	res, err := Run(context.Background(), req)
	if err != nil || res.Failed() || !res.Lint.Skipped {
		t.Fatalf("Run = %+v, %v", res, err)
	}
}

func TestEmptyProjectStillLints(t *testing.T) {
	root := t.TempDir()
	fl := &fakeLint{}
	req, _ := newRequest(root, fl)
	req.VersionCheck = false

	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Files) != 0 || res.Failed() || fl.calls != 1 || len(fl.files) != 0 {
		t.Fatalf("unexpected result %+v (lint %+v)", res, fl)
	}
}

func TestMissingFileAborts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.cc": "int x; \n",
		"c.cc": "\tint z;\n",
	})
	fl := &fakeLint{}
	for _, jobs := range []int{1, 4} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			req, stream := newRequest(root, fl)
			req.Jobs = jobs
			a := filepath.Join(root, "a.cc")
			req.Files = []string{a, filepath.Join(root, "b.cc"), filepath.Join(root, "c.cc")}

			_, err := Run(context.Background(), req)
			if !errors.Is(err, fs.ErrNotExist) {
				t.Fatalf("expected ErrNotExist, got %v", err)
			}
			if got := locations(stream.Items()); !reflect.DeepEqual(got, []string{a + ":1: line ends with white space"}) {
				t.Fatalf("only files before the failure may be reported, got %q", got)
			}
		})
	}
	if fl.calls != 0 {
		t.Fatal("lint must not run after a fatal error")
	}
}

func TestInvalidUTF8Aborts(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bad.cc")
	if err := os.WriteFile(path, []byte("int x;\n\xff\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	req, _ := newRequest(root, &fakeLint{})
	req.Files = []string{path}
	if _, err := Run(context.Background(), req); !errors.Is(err, source.ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestParallelOrderMatchesSequential(t *testing.T) {
	root := t.TempDir()
	files := make(map[string]string)
	for i := range 40 {
		var b strings.Builder
		for range i % 5 {
			b.WriteString("int x;\n")
		}
		b.WriteString("x = 1; \n\n\n")
		files[fmt.Sprintf("src/f%02d.cc", i)] = b.String()
	}
	writeFiles(t, root, files)

	run := func(jobs int) []string {
		req, stream := newRequest(root, &fakeLint{})
		req.VersionCheck = false
		req.Jobs = jobs
		if _, err := Run(context.Background(), req); err != nil {
			t.Fatalf("Run(jobs=%d) failed: %v", jobs, err)
		}
		return locations(stream.Items())
	}
	seq := run(1)
	if len(seq) != 80 {
		t.Fatalf("expected 80 diagnostics, got %d", len(seq))
	}
	if par := run(8); !reflect.DeepEqual(seq, par) {
		t.Fatalf("parallel output differs:\n%q\n%q", seq, par)
	}
}

func TestCacheReplay(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/a.cc": "int x; \n",
		"src/b.cc": "#pragma once\n",
	})
	c, err := cache.Open("srccheck", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	run := func() (Result, []string) {
		req, stream := newRequest(root, &fakeLint{})
		req.VersionCheck = false
		req.Cache = c
		res, err := Run(context.Background(), req)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return res, locations(stream.Items())
	}
	first, want := run()
	if first.CacheHits != 0 {
		t.Fatalf("cold cache reported %d hits", first.CacheHits)
	}
	second, got := run()
	if second.CacheHits != 2 {
		t.Fatalf("expected 2 cache hits, got %d", second.CacheHits)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("replayed %q, want %q", got, want)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestProgressEvents(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/a.cc": "int x; \n",
		"src/b.cc": "int y;\n",
	})
	sink := &recordingSink{}
	req, _ := newRequest(root, &fakeLint{})
	req.VersionCheck = false
	req.Jobs = 2
	req.Progress = sink
	if _, err := Run(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	counts := make(map[string]map[Status]int)
	violations := make(map[string]int)
	for _, ev := range sink.events {
		if ev.Stage != StageScan {
			continue
		}
		if counts[ev.File] == nil {
			counts[ev.File] = make(map[Status]int)
		}
		counts[ev.File][ev.Status]++
		if ev.Status == StatusDone {
			violations[ev.File] = ev.Violations
		}
	}
	for _, name := range []string{"src/a.cc", "src/b.cc"} {
		c := counts[name]
		if c[StatusQueued] != 1 || c[StatusChecking] != 1 || c[StatusDone] != 1 {
			t.Fatalf("%s: unexpected events %v", name, c)
		}
	}
	if violations["src/a.cc"] != 1 || violations["src/b.cc"] != 0 {
		t.Fatalf("unexpected violation counts %v", violations)
	}
	last := sink.events[len(sink.events)-1]
	if last.Stage != StageLint || last.Status != StatusDone {
		t.Fatalf("last event = %+v", last)
	}
}
