package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/avpp/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records abstraction events in Prometheus metrics.
type PromSink struct {
	abstractions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	regions      *prometheus.GaugeVec
	holes        *prometheus.GaugeVec
	steps        *prometheus.GaugeVec
	stepMax      *prometheus.GaugeVec
	runs         *prometheus.CounterVec
}

// NewPromSink registers abstraction metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		abstractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "avpp_abstractions_total",
			Help: "Total number of abstraction passes per node",
		}, []string{"node", "kind", "converged"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "avpp_abstraction_duration_seconds",
			Help:    "Time spent in one abstraction pass",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		regions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "avpp_feasible_regions",
			Help: "Number of disjoint feasible regions of the last abstraction",
		}, []string{"node", "kind"}),
		holes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "avpp_supply_holes",
			Help: "Number of supply holes of the last abstraction",
		}, []string{"node", "kind"}),
		steps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "avpp_temporal_steps",
			Help: "Number of simulated steps of the last temporal abstraction",
		}, []string{"node"}),
		stepMax: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "avpp_step_max_power",
			Help: "Highest reachable output per temporal step",
		}, []string{"node", "step"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "avpp_runs_total",
			Help: "Total number of scheduler runs",
		}, []string{"failed"}),
	}

	var err error
	if s.abstractions, err = register(reg, s.abstractions); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.regions, err = register(reg, s.regions); err != nil {
		return nil, err
	}
	if s.holes, err = register(reg, s.holes); err != nil {
		return nil, err
	}
	if s.steps, err = register(reg, s.steps); err != nil {
		return nil, err
	}
	if s.stepMax, err = register(reg, s.stepMax); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAbstraction counts the pass and updates the region gauges of the node.
func (s *PromSink) RecordAbstraction(ev coremetrics.AbstractionEvent) error {
	s.abstractions.WithLabelValues(ev.Node, ev.Kind, strconv.FormatBool(ev.Converged)).Inc()
	s.duration.WithLabelValues(ev.Kind).Observe(ev.Duration.Seconds())
	s.regions.WithLabelValues(ev.Node, ev.Kind).Set(float64(ev.Regions))
	s.holes.WithLabelValues(ev.Node, ev.Kind).Set(float64(ev.Holes))
	if ev.Kind == coremetrics.KindTemporal {
		s.steps.WithLabelValues(ev.Node).Set(float64(ev.Steps))
	}
	return nil
}

// RecordTemporalStep sets the reachable maximum of one step.
func (s *PromSink) RecordTemporalStep(ev coremetrics.StepEvent) error {
	s.stepMax.WithLabelValues(ev.Node, strconv.Itoa(ev.Step)).Set(ev.Max)
	return nil
}

// RecordRun counts scheduler runs by outcome.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(strconv.FormatBool(ev.Failed)).Inc()
	return nil
}
