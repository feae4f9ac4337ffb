package abstraction

import (
	"errors"
	"fmt"

	"github.com/kilianp07/avpp/core/logger"
	"github.com/kilianp07/avpp/core/metrics"
)

var (
	ErrContradictoryConstraints = errors.New("contradictory constraints")
	ErrNoSteps                  = errors.New("temporal abstraction produced no steps")
)

// Abstractor runs general and temporal abstraction with one configuration.
// It holds no per-node state; calls on disjoint subtrees may run
// concurrently.
type Abstractor struct {
	cfg   Config
	log   logger.Logger
	sink  metrics.MetricsSink
	runID string
}

// Option configures an Abstractor.
type Option func(*Abstractor)

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Abstractor) { a.log = logger.OrNop(l) }
}

// WithMetrics sets the sink receiving abstraction events.
func WithMetrics(s metrics.MetricsSink) Option {
	return func(a *Abstractor) {
		if s != nil {
			a.sink = s
		}
	}
}

// WithRunID tags all metrics events with id.
func WithRunID(id string) Option {
	return func(a *Abstractor) { a.runID = id }
}

// New returns an Abstractor. Unset config fields take their defaults.
func New(cfg Config, opts ...Option) (*Abstractor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("abstraction config: %w", err)
	}
	a := &Abstractor{cfg: cfg, log: logger.Nop{}, sink: metrics.NopSink{}}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Config returns the effective configuration.
func (a *Abstractor) Config() Config { return a.cfg }

func (a *Abstractor) record(ev metrics.AbstractionEvent) {
	ev.RunID = a.runID
	if err := a.sink.RecordAbstraction(ev); err != nil {
		a.log.Errorf("metrics error: %v", err)
	}
}

func (a *Abstractor) recordStep(ev metrics.StepEvent) {
	rec, ok := a.sink.(metrics.StepRecorder)
	if !ok {
		return
	}
	ev.RunID = a.runID
	if err := rec.RecordTemporalStep(ev); err != nil {
		a.log.Errorf("step metrics error: %v", err)
	}
}
