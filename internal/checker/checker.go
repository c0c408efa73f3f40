// Package checker runs one style check: file discovery, the per-file text
// and byte scanners, the project version check and the external lint step.
package checker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"srccheck/internal/cache"
	"srccheck/internal/diag"
	"srccheck/internal/discover"
	"srccheck/internal/lint"
	"srccheck/internal/observ"
	"srccheck/internal/rules"
	"srccheck/internal/source"
	"srccheck/internal/trace"
	"srccheck/internal/vercheck"
)

// Request describes a check run.
type Request struct {
	Root     string   // project root; globs and version sources resolve against it
	Files    []string // explicit file list; empty selects whole-project mode
	Patterns []string // project globs, discover.DefaultPatterns when nil

	Rules rules.Options

	VersionCheck   bool
	VersionSources []vercheck.Source

	Lint lint.Runner // nil skips the lint step

	Jobs  int         // scan workers, GOMAXPROCS when <= 0
	Cache *cache.Disk // optional per-file result cache

	Reporter diag.Reporter // receives diagnostics as they are emitted, in order
	Progress ProgressSink
}

// Result summarizes a finished run.
type Result struct {
	Files          []discover.File
	WholeProject   bool
	Bag            *diag.Bag
	VersionChecked bool
	Versions       vercheck.Versions
	Lint           lint.Outcome
	CacheHits      int
	Sources        *source.FileSet
	Timings        observ.Report
}

// Count returns the number of violations.
func (r Result) Count() int { return r.Bag.Len() }

// Failed reports whether any violation was found or the lint step failed.
func (r Result) Failed() bool {
	return r.Bag.HasErrors() || !r.Lint.Passed()
}

// Run executes the check. Rule violations never produce an error; a file
// that cannot be read or decoded aborts the run after the diagnostics of
// the files before it were emitted.
func Run(ctx context.Context, req Request) (res Result, err error) {
	tr := trace.FromContext(ctx)
	runSpan := trace.Begin(tr, trace.ScopeRun, "check", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, runSpan)

	progress := req.Progress
	if progress == nil {
		progress = nopSink{}
	}
	patterns := req.Patterns
	if patterns == nil {
		patterns = discover.DefaultPatterns
	}
	runner := req.Lint
	if runner == nil {
		runner = lint.SkipRunner{}
	}

	bag := diag.NewBag(0)
	emit := diag.MultiReporter{diag.BagReporter{Bag: bag}, req.Reporter}
	timer := observ.NewTimer()
	res.Bag = bag
	defer func() {
		res.Timings = timer.Report()
	}()

	// discover
	phase := timer.Begin(string(StageDiscover))
	span := trace.Begin(tr, trace.ScopePhase, string(StageDiscover), runSpan.ID())
	files, whole, err := discover.Files(req.Root, req.Files, patterns)
	span.End(strconv.Itoa(len(files)) + " files")
	timer.End(phase, "")
	if err != nil {
		runSpan.End("failed")
		return res, fmt.Errorf("discover: %w", err)
	}
	res.Files = files
	res.WholeProject = whole

	// scan
	phase = timer.Begin(string(StageScan))
	span = trace.Begin(tr, trace.ScopePhase, string(StageScan), runSpan.ID())
	res.Sources = source.NewFileSet()
	hits, err := scanAll(ctx, req, files, res.Sources, emit, progress, span.ID())
	res.CacheHits = hits
	span.End(fmt.Sprintf("%d files, %d violations", len(files), bag.Len()))
	timer.End(phase, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		runSpan.End("failed")
		return res, err
	}

	// version
	if whole && req.VersionCheck {
		phase = timer.Begin(string(StageVersion))
		span = trace.Begin(tr, trace.ScopePhase, string(StageVersion), runSpan.ID())
		progress.OnEvent(Event{Stage: StageVersion, Status: StatusChecking})
		versions, err := vercheck.Run(req.Root, req.VersionSources, emit)
		span.End(fmt.Sprint(versions.Values))
		timer.End(phase, "")
		if err != nil {
			progress.OnEvent(Event{Stage: StageVersion, Status: StatusError, Err: err})
			runSpan.End("failed")
			return res, fmt.Errorf("version check: %w", err)
		}
		progress.OnEvent(Event{Stage: StageVersion, Status: StatusDone})
		res.VersionChecked = true
		res.Versions = versions
	}

	// lint
	phase = timer.Begin(string(StageLint))
	span = trace.Begin(tr, trace.ScopePhase, string(StageLint), runSpan.ID())
	progress.OnEvent(Event{Stage: StageLint, Status: StatusChecking})
	dir, args := lintTarget(req.Root, files, whole)
	res.Lint = runner.Run(ctx, dir, args)
	status := StatusDone
	if !res.Lint.Passed() {
		status = StatusError
		trace.Error(tr, trace.ScopePhase, string(StageLint), res.Lint.Err, span.ID())
	}
	progress.OnEvent(Event{Stage: StageLint, Status: status, Err: res.Lint.Err, Elapsed: res.Lint.Duration})
	span.End("exit " + strconv.Itoa(res.Lint.ExitCode))
	timer.End(phase, lintNote(res.Lint))

	runSpan.End(fmt.Sprintf("%d violations", bag.Len()))
	return res, nil
}

// scanAll scans files with up to req.Jobs workers and emits each file's
// diagnostics in discovery order. It stops at the first file that fails to
// load; files before it are always emitted.
func scanAll(ctx context.Context, req Request, files []discover.File, sources *source.FileSet, emit diag.Reporter, progress ProgressSink, parent uint64) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}
	for _, f := range files {
		progress.OnEvent(Event{File: f.Name, Stage: StageScan, Status: StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := &scanner{
		opts:     req.Rules,
		files:    sources,
		cache:    req.Cache,
		progress: progress,
		tracer:   trace.FromContext(ctx),
		parent:   parent,
	}

	results := make([]fileResult, len(files))
	for i := range results {
		results[i].done = make(chan struct{})
	}

	// Workers never return an error: failures are kept per slot so the
	// emitter can report them in file order.
	var g errgroup.Group
	g.SetLimit(min(jobs, len(files)))
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, f := range files {
			if ctx.Err() != nil {
				return
			}
			g.Go(func() error {
				r := &results[i]
				defer close(r.done)
				r.diags, r.cached, r.err = s.scanFile(ctx, f)
				return nil
			})
		}
	}()

	hits := 0
	var scanErr error
	for i := range results {
		r := &results[i]
		select {
		case <-r.done:
		case <-ctx.Done():
			scanErr = ctx.Err()
		}
		if scanErr != nil {
			break
		}
		if r.err != nil {
			scanErr = r.err
			break
		}
		if r.cached {
			hits++
		}
		for _, d := range r.diags {
			emit.Report(d)
		}
	}
	cancel()
	<-launched
	_ = g.Wait()
	return hits, scanErr
}

// lintTarget returns the working directory and file arguments for the lint
// step. Globbed files are passed relative to the root; explicit files are
// passed as given from the current directory.
func lintTarget(root string, files []discover.File, whole bool) (string, []string) {
	if !whole {
		return "", discover.Paths(files)
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return root, names
}

func lintNote(o lint.Outcome) string {
	switch {
	case o.Skipped:
		return "skipped"
	case o.Passed():
		return "passed"
	default:
		return "exit " + strconv.Itoa(o.ExitCode)
	}
}
