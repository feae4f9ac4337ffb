package events

import "time"

// Event is any progress event.
type Event interface {
	EventRunID() string
}

// NodeEvent is published after an AVPP has been abstracted.
type NodeEvent struct {
	RunID     string
	Node      string
	Steps     int
	Converged bool
	Duration  time.Duration
}

func (e NodeEvent) EventRunID() string { return e.RunID }

// RunEvent is published when a run finished. Err is nil on success.
type RunEvent struct {
	RunID    string
	Nodes    int
	Err      error
	Duration time.Duration
}

func (e RunEvent) EventRunID() string { return e.RunID }
