package checker

import "time"

// Stage names a phase of a check run.
type Stage string

const (
	StageDiscover Stage = "discover"
	StageScan     Stage = "scan"
	StageVersion  Stage = "version"
	StageLint     Stage = "lint"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to be scanned.
	StatusQueued Status = "queued"
	// StatusChecking indicates the file is being scanned.
	StatusChecking Status = "checking"
	// StatusDone indicates the file is done.
	StatusDone Status = "done"
	// StatusError indicates the file could not be read.
	StatusError Status = "error"
)

// Event reports progress for a file (or for a whole stage when File is empty).
type Event struct {
	File       string
	Stage      Stage
	Status     Status
	Violations int
	Cached     bool
	Err        error
	Elapsed    time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; scan workers emit directly.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
