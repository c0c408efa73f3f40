package checker

import (
	"context"
	"time"

	"srccheck/internal/cache"
	"srccheck/internal/diag"
	"srccheck/internal/discover"
	"srccheck/internal/rules"
	"srccheck/internal/source"
	"srccheck/internal/trace"
)

// fileResult holds the buffered outcome of one file until it is its turn
// to be emitted.
type fileResult struct {
	diags  []diag.Diagnostic
	cached bool
	err    error
	done   chan struct{}
}

type scanner struct {
	opts     rules.Options
	files    *source.FileSet
	cache    *cache.Disk
	progress ProgressSink
	tracer   trace.Tracer
	parent   uint64
}

// scanFile loads one file and produces its diagnostics, replaying them from
// the cache when the content and rule options are unchanged.
func (s *scanner) scanFile(ctx context.Context, file discover.File) ([]diag.Diagnostic, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	start := time.Now()
	s.progress.OnEvent(Event{File: file.Name, Stage: StageScan, Status: StatusChecking})

	id, err := s.files.Load(file.Path)
	if err != nil {
		trace.Error(s.tracer, trace.ScopeFile, "file:"+file.Name, err, s.parent)
		s.progress.OnEvent(Event{File: file.Name, Stage: StageScan, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return nil, false, err
	}

	f := s.files.Get(id)
	bag := diag.NewBag(0)
	key := cache.NewKey(f.Hash, s.opts.Fingerprint())
	payload, hit, err := s.cache.Get(key)
	if err != nil {
		trace.Error(s.tracer, trace.ScopeDebug, "cache:get", err, s.parent)
	}
	if hit {
		payload.Replay(file.Name, diag.BagReporter{Bag: bag})
		trace.Point(s.tracer, trace.ScopeDebug, "cache", "hit "+file.Name, s.parent)
	} else {
		rules.ScanFile(file.Name, f, diag.BagReporter{Bag: bag}, s.opts)
		if err := s.cache.Put(key, cache.FromDiagnostics(bag.Items())); err != nil {
			trace.Error(s.tracer, trace.ScopeDebug, "cache:put", err, s.parent)
		}
	}

	elapsed := time.Since(start)
	trace.Point(s.tracer, trace.ScopeFile, "file:"+file.Name, elapsed.Round(time.Microsecond).String(), s.parent)
	s.progress.OnEvent(Event{
		File:       file.Name,
		Stage:      StageScan,
		Status:     StatusDone,
		Violations: bag.Len(),
		Cached:     hit,
		Elapsed:    elapsed,
	})
	return bag.Items(), hit, nil
}
