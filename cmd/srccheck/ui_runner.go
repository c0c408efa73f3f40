package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"srccheck/internal/checker"
	"srccheck/internal/ui"
)

type checkOutcome struct {
	result checker.Result
	err    error
}

// runCheckWithUI runs the check while a progress view draws on stderr.
// Diagnostics are not streamed; the caller prints them from the result.
func runCheckWithUI(ctx context.Context, title string, req checker.Request) (checker.Result, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan checker.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Reporter = nil
		reqCopy.Progress = checker.ChannelSink{Ch: events}
		res, err := checker.Run(ctx, reqCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// The view is gone before events closes only on error or ctrl+c; stop
	// the check and keep it from blocking on a full channel.
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	if errors.Is(outcome.err, context.Canceled) && parent.Err() == nil {
		return outcome.result, fmt.Errorf("check interrupted: %w", outcome.err)
	}
	return outcome.result, outcome.err
}
