// Package lint delegates to an external style checker and observes only
// its exit status.
package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommand is the external lint executable.
const DefaultCommand = "cpplint"

// DefaultFilters disables the built-in rule categories that do not apply.
var DefaultFilters = []string{
	"-legal/copyright",
	"-build/header_guard",
	"-runtime/references",
	"-whitespace/indent",
	"-build/c++11",
	"-build/include",
	"-readability/streams",
	"-runtime/int",
	"-runtime/printf",
	"-runtime/arrays",
}

// Options describes the lint command line.
type Options struct {
	Command    string
	Quiet      bool
	LineLength int
	Filters    []string
	Args       []string // extra arguments placed before the file list
}

// DefaultOptions returns the canonical cpplint invocation settings.
func DefaultOptions() Options {
	return Options{
		Command:    DefaultCommand,
		Quiet:      true,
		LineLength: 70,
		Filters:    append([]string(nil), DefaultFilters...),
	}
}

// Argv builds the argument vector, command first. No shell is involved,
// so file names are passed through untouched.
func (o Options) Argv(files []string) []string {
	argv := []string{o.Command}
	if o.Quiet {
		argv = append(argv, "--quiet")
	}
	if o.LineLength > 0 {
		argv = append(argv, fmt.Sprintf("--linelength=%d", o.LineLength))
	}
	if len(o.Filters) > 0 {
		argv = append(argv, "--filter="+strings.Join(o.Filters, ","))
	}
	argv = append(argv, o.Args...)
	return append(argv, files...)
}

// Outcome is the observed result of one lint invocation.
type Outcome struct {
	Argv     []string
	ExitCode int
	Err      error // set when the command could not run or exited non-zero
	Skipped  bool
	Duration time.Duration
}

// Passed reports whether the lint step counts as successful.
func (o Outcome) Passed() bool {
	return o.Skipped || (o.Err == nil && o.ExitCode == 0)
}

// Runner executes the lint step over a file set.
type Runner interface {
	Run(ctx context.Context, dir string, files []string) Outcome
}

// ExecRunner runs the lint command as a subprocess.
type ExecRunner struct {
	Options Options
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewExecRunner returns a runner writing the tool's output to the process streams.
func NewExecRunner(opts Options) *ExecRunner {
	return &ExecRunner{Options: opts, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run blocks until the command exits. A missing executable yields a failed
// outcome with exit code 127 rather than an error return.
func (r *ExecRunner) Run(ctx context.Context, dir string, files []string) Outcome {
	argv := r.Options.Argv(files)
	out := Outcome{Argv: argv}
	if r.Options.Command == "" {
		out.ExitCode = 127
		out.Err = errors.New("lint command is empty")
		return out
	}
	start := time.Now()
	// #nosec G204 -- command comes from project configuration
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	err := cmd.Run()
	out.Duration = time.Since(start)
	if err == nil {
		return out
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		out.Err = fmt.Errorf("%s exited with status %d", argv[0], out.ExitCode)
		return out
	}
	out.ExitCode = 127
	out.Err = fmt.Errorf("run %s: %w", argv[0], err)
	return out
}

// SkipRunner never runs anything; its outcome always passes.
type SkipRunner struct{}

func (SkipRunner) Run(context.Context, string, []string) Outcome {
	return Outcome{Skipped: true}
}
