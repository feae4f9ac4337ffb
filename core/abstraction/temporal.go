package abstraction

import (
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/merge"
	"github.com/kilianp07/avpp/core/metrics"
	"github.com/kilianp07/avpp/core/plant"
)

// TemporalResult is the per-step outcome of a temporal abstraction.
type TemporalResult struct {
	Steps []merge.Result `json:"steps"`
	// Converged is set when the loop stopped before the horizon because the
	// general region was reached or a step came back empty.
	Converged bool `json:"converged"`
}

// Regions returns the feasible region of every step.
func (r TemporalResult) Regions() []interval.Set {
	out := make([]interval.Set, len(r.Steps))
	for k, s := range r.Steps {
		out[k] = s.Regions
	}
	return out
}

// Holes returns the holes of every step.
func (r TemporalResult) Holes() []interval.Set {
	out := make([]interval.Set, len(r.Steps))
	for k, s := range r.Steps {
		out[k] = s.Holes
	}
	return out
}

// aggregateSource returns the set an aggregate child contributes at step t.
type aggregateSource func(d *plant.Data, t int) interval.Set

// member is a child in a simulation: concrete plants carry a state,
// aggregates do not.
type member struct {
	data  *plant.Data
	state *plant.State
}

// Temporal simulates the children of node for up to horizon steps, or the
// configured horizon if horizon is not positive, and attaches the per-step
// regions and holes to node. The node's general region, if present, is
// used for the convergence check.
func (a *Abstractor) Temporal(node *plant.Data, children []*plant.Data, horizon int) (TemporalResult, error) {
	if horizon <= 0 {
		horizon = a.cfg.Horizon
	}
	start := time.Now()

	members := make([]member, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return TemporalResult{}, fmt.Errorf("temporal abstraction of %s: %w", node.Name, err)
		}
		m := member{data: c}
		if !c.Aggregate {
			m.state = plant.NewState(c)
		}
		members = append(members, m)
	}

	res, err := a.simulate(node.Name, members, horizon, node.FeasibleRegions, stepsOrGeneral, true)
	if err != nil {
		return TemporalResult{}, err
	}
	node.Steps = res.Regions()
	node.StepHoles = res.Holes()
	node.DeriveInitialPower(currentOutput(children))

	a.log.Infof("temporal abstraction of %s: %d/%d steps converged=%t", node.Name, len(res.Steps), horizon, res.Converged)
	ev := metrics.AbstractionEvent{
		Node:      node.Name,
		Kind:      metrics.KindTemporal,
		Steps:     len(res.Steps),
		Converged: res.Converged,
		Duration:  time.Since(start),
		Time:      start,
	}
	if n := len(res.Steps); n > 0 {
		last := res.Steps[n-1]
		ev.Regions, ev.Holes = len(last.Regions), len(last.Holes)
		ev.Min, ev.Max = last.Regions.First().Min, last.Regions.Last().Max
	}
	a.record(ev)
	return res, nil
}

// stepsOrGeneral picks the child's own step region for t, falling back to its
// general region once the child's horizon is exhausted.
func stepsOrGeneral(d *plant.Data, t int) interval.Set {
	if idx := t - 1; idx < len(d.Steps) && len(d.Steps[idx]) > 0 {
		return d.Steps[idx].Clone()
	}
	return d.GeneralRegion()
}

// simulate runs the step loop. States are advanced in place. A nil general
// region disables the convergence check.
func (a *Abstractor) simulate(node string, members []member, horizon int, general interval.Set, agg aggregateSource, report bool) (TemporalResult, error) {
	var out TemporalResult
	for t := 1; t <= horizon; t++ {
		sets := make([]interval.Set, 0, len(members))
		for _, m := range members {
			if m.state == nil {
				sets = append(sets, agg(m.data, t))
				continue
			}
			m.state.Step = t
			s, err := a.advance(m.state)
			if err != nil {
				return TemporalResult{}, fmt.Errorf("node %s step %d: %w", node, t, err)
			}
			sets = append(sets, s)
		}

		step := merge.Detect(sets)
		if len(step.Regions) == 0 {
			out.Converged = true
			break
		}
		out.Steps = append(out.Steps, step)

		if report {
			a.log.Debugw("temporal step", map[string]any{
				"node":    node,
				"step":    t,
				"regions": len(step.Regions),
				"min":     step.Regions.First().Min,
				"max":     step.Regions.Last().Max,
			})
			a.recordStep(metrics.StepEvent{
				Node:    node,
				Step:    t,
				Regions: len(step.Regions),
				Holes:   len(step.Holes),
				Min:     step.Regions.First().Min,
				Max:     step.Regions.Last().Max,
				Time:    time.Now(),
			})
		}

		if general != nil && step.Regions.ApproxEqual(general, a.cfg.Tolerance) {
			out.Converged = true
			break
		}
	}
	return out, nil
}

// advance moves one plant state forward by one step and returns the interval
// set it can produce in that step.
func (a *Abstractor) advance(st *plant.State) (interval.Set, error) {
	dt := a.cfg.DeltaTimeMinutes
	snap := st.Snapshot()

	pMin, pMax := math.Inf(-1), math.Inf(1)
	onMin, onMax := false, true
	for _, c := range st.Data.Constraints {
		if c.Soft {
			continue
		}
		pMin = max(pMin, c.Minimize(snap, dt))
		pMax = min(pMax, c.Maximize(snap, dt))
		onMin = onMin || c.MinimizeBool(snap, dt)
		onMax = onMax && c.MaximizeBool(snap, dt)
	}

	if onMin && !onMax {
		return nil, fmt.Errorf("plant %s: must run and must stay off: %w", st.Data.Name, ErrContradictoryConstraints)
	}
	st.UpdateRunning(onMin, onMax)

	bounds, _ := st.Data.BoundsOrRegion()
	// a plant without a limiting constraint stays within its boundaries
	if math.IsInf(pMin, -1) {
		pMin = bounds.Min
	}
	if math.IsInf(pMax, 1) {
		pMax = bounds.Max
	}
	if !onMin {
		pMin = 0
	}
	if onMax {
		pMax = max(pMax, bounds.Min)
	}
	if onMin && pMin > pMax+a.cfg.Jitter {
		return nil, fmt.Errorf("plant %s: envelope [%g %g]: %w", st.Data.Name, pMin, pMax, ErrContradictoryConstraints)
	}
	st.Power = interval.New(pMin, pMax)

	on := interval.New(max(pMin, bounds.Min), max(pMax, bounds.Min+a.cfg.StartupDelta))
	set := make(interval.Set, 0, 2)
	if !st.Running.OnlyOn() {
		set = append(set, interval.Zero())
	}
	if !st.Running.OnlyOff() {
		set = append(set, on)
	}
	return set, nil
}

// currentOutput sums the initial output of all children.
func currentOutput(children []*plant.Data) float64 {
	var total float64
	for _, c := range children {
		if c != nil {
			total += c.Initial.Power
		}
	}
	return total
}
