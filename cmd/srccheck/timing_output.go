package main

import (
	"fmt"
	"io"

	"srccheck/internal/checker"
	"srccheck/internal/diag"
)

func printTimings(out io.Writer, res checker.Result) {
	if out == nil {
		return
	}
	for _, phase := range res.Timings.Phases {
		line := fmt.Sprintf("%s %.1f ms", phase.Name, phase.DurationMS)
		if phase.Note != "" {
			line += " (" + phase.Note + ")"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "sources %d/%d loaded\n", res.Sources.Len(), len(res.Files))
	counts := res.Bag.CountByCode()
	for _, code := range diag.Codes() {
		if n := counts[code]; n > 0 {
			fmt.Fprintf(out, "%s %d\n", code.ID(), n)
		}
	}
	if res.CacheHits > 0 {
		fmt.Fprintf(out, "cache hits %d/%d\n", res.CacheHits, len(res.Files))
	}
	fmt.Fprintf(out, "total %.1f ms\n", res.Timings.TotalMS)
}
