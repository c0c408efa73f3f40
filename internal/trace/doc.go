// Package trace provides structured run logging for srccheck.
//
// Diagnostics are the tool's output and never pass through here; the tracer
// records what the checker did: which phase ran, which files were scanned or
// served from cache, how the lint command was invoked.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	srccheck --trace=- --trace-level=detail
//	srccheck --trace=run.ndjson --trace-level=debug src/a.cc
//
// # Implementations
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: immediate write to a file or stderr, text or NDJSON
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failures only
//   - LevelPhase: run and phase boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything, including cache lookups
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "scan", 0)
//	defer span.End("")
package trace
