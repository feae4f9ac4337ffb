package metrics

import "time"

// Abstraction kinds reported in AbstractionEvent.Kind.
const (
	KindGeneral  = "general"
	KindTemporal = "temporal"
)

// AbstractionEvent summarizes one abstraction pass over one AVPP node.
type AbstractionEvent struct {
	RunID     string
	Node      string
	Kind      string
	Regions   int
	Holes     int
	Steps     int
	Converged bool
	// Min and Max are the hull of the resulting feasible region.
	Min      float64
	Max      float64
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records abstraction results for observability purposes.
type MetricsSink interface {
	RecordAbstraction(ev AbstractionEvent) error
}

// StepEvent captures one simulated step of a temporal abstraction.
type StepEvent struct {
	RunID   string
	Node    string
	Step    int
	Regions int
	Holes   int
	Min     float64
	Max     float64
	Time    time.Time
}

// StepRecorder records per-step temporal abstraction results.
type StepRecorder interface {
	RecordTemporalStep(ev StepEvent) error
}

// RunEvent describes a complete scheduler run over a tree.
type RunEvent struct {
	RunID    string
	Nodes    int
	Failed   bool
	Duration time.Duration
	Time     time.Time
}

// RunRecorder records scheduler runs.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAbstraction(AbstractionEvent) error { return nil }
func (NopSink) RecordTemporalStep(StepEvent) error       { return nil }
func (NopSink) RecordRun(RunEvent) error                 { return nil }
