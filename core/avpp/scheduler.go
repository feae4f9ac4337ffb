package avpp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/avpp/core/abstraction"
	"github.com/kilianp07/avpp/core/events"
	"github.com/kilianp07/avpp/core/logger"
	"github.com/kilianp07/avpp/core/metrics"
	"github.com/kilianp07/avpp/core/plant"
)

// Scheduler abstracts all AVPPs of a tree bottom-up.
type Scheduler struct {
	cfg     abstraction.Config
	logger  logger.Logger
	metrics metrics.MetricsSink

	mu  sync.RWMutex
	pub Publisher
}

// Publisher receives progress events. *eventbus.TypedBus[events.Event]
// satisfies it.
type Publisher interface {
	Publish(events.Event)
}

// NodeResult is the outcome of abstracting one AVPP.
type NodeResult struct {
	ID        plant.ID
	Name      string
	Steps     int
	Converged bool
	// Ramp is false when the node produced no temporal steps and therefore
	// has no ramp delta functions.
	Ramp     bool
	Duration time.Duration
}

// Report summarizes a scheduler run. Nodes are listed in completion order.
type Report struct {
	RunID    string
	Nodes    []NodeResult
	Duration time.Duration
}

// NewScheduler returns a scheduler using cfg for every node. Nil logger and
// sink fall back to no-ops.
func NewScheduler(cfg abstraction.Config, log logger.Logger, sink metrics.MetricsSink) (*Scheduler, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("abstraction config: %w", err)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Scheduler{cfg: cfg, logger: logger.OrNop(log), metrics: sink}, nil
}

// SetPublisher sets the destination of progress events. Nil disables them.
func (s *Scheduler) SetPublisher(p Publisher) {
	s.mu.Lock()
	s.pub = p
	s.mu.Unlock()
}

func (s *Scheduler) publisher() Publisher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pub
}

// Run validates the tree, clears earlier results and abstracts every AVPP.
// Aggregates without children keep the regions they were given.
func (s *Scheduler) Run(ctx context.Context, tree *plant.Tree) (Report, error) {
	start := time.Now()
	rep := Report{RunID: uuid.NewString()}

	a, err := abstraction.New(s.cfg,
		abstraction.WithLogger(s.logger),
		abstraction.WithMetrics(s.metrics),
		abstraction.WithRunID(rep.RunID))
	if err != nil {
		return rep, err
	}

	pub := s.publisher()
	r := &run{tree: tree, abs: a, rep: &rep, pub: pub}
	err = tree.Validate()
	if err == nil {
		tree.Reset()
		if s.cfg.Parallel {
			err = r.parallel(ctx)
		} else {
			err = r.sequential(ctx)
		}
	}

	rep.Duration = time.Since(start)
	s.recordRun(rep, err)
	if pub != nil {
		pub.Publish(events.RunEvent{RunID: rep.RunID, Nodes: len(rep.Nodes), Err: err, Duration: rep.Duration})
	}
	if err != nil {
		s.logger.Errorf("abstraction run %s failed: %v", rep.RunID, err)
		return rep, err
	}
	s.logger.Infof("abstraction run %s: %d AVPPs in %s", rep.RunID, len(rep.Nodes), rep.Duration)
	return rep, nil
}

func (s *Scheduler) recordRun(rep Report, err error) {
	rec, ok := s.metrics.(metrics.RunRecorder)
	if !ok {
		return
	}
	ev := metrics.RunEvent{
		RunID:    rep.RunID,
		Nodes:    len(rep.Nodes),
		Failed:   err != nil,
		Duration: rep.Duration,
		Time:     time.Now(),
	}
	if rerr := rec.RecordRun(ev); rerr != nil {
		s.logger.Errorf("metrics error: %v", rerr)
	}
}

// run carries the state of one Scheduler.Run call.
type run struct {
	tree *plant.Tree
	abs  *abstraction.Abstractor
	pub  Publisher

	mu  sync.Mutex
	rep *Report
}

func (r *run) sequential(ctx context.Context) error {
	for _, root := range r.tree.Roots() {
		order, err := r.tree.PostOrder(root)
		if err != nil {
			return err
		}
		for _, id := range order {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.node(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *run) parallel(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, root := range r.tree.Roots() {
		root := root
		g.Go(func() error { return r.subtree(ctx, root) })
	}
	return g.Wait()
}

// subtree abstracts the children of id concurrently, then id itself. Sibling
// subtrees share no nodes, so each goroutine owns the nodes it writes.
func (r *run) subtree(ctx context.Context, id plant.ID) error {
	n, err := r.tree.Node(id)
	if err != nil {
		return err
	}
	if !n.Aggregate {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range n.Children {
		c := c
		g.Go(func() error { return r.subtree(gctx, c) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.node(id)
}

// node runs general, temporal and ramp abstraction for one AVPP.
func (r *run) node(id plant.ID) error {
	start := time.Now()
	n, err := r.tree.Node(id)
	if err != nil {
		return err
	}
	if len(n.Children) == 0 {
		return nil
	}
	children, err := r.tree.Children(id)
	if err != nil {
		return err
	}

	if _, err := r.abs.GeneralAbstract(n, children); err != nil {
		return err
	}
	res, err := r.abs.Temporal(n, children, 0)
	if err != nil {
		return err
	}
	nr := NodeResult{ID: id, Name: n.Name, Steps: len(res.Steps), Converged: res.Converged}
	if len(res.Steps) > 0 {
		if _, _, err := r.abs.DeriveRampDeltas(n, children); err != nil {
			return err
		}
		nr.Ramp = true
	}
	nr.Duration = time.Since(start)

	r.mu.Lock()
	r.rep.Nodes = append(r.rep.Nodes, nr)
	r.mu.Unlock()

	if r.pub != nil {
		r.pub.Publish(events.NodeEvent{
			RunID:     r.rep.RunID,
			Node:      nr.Name,
			Steps:     nr.Steps,
			Converged: nr.Converged,
			Duration:  nr.Duration,
		})
	}
	return nil
}
