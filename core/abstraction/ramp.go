package abstraction

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/pwl"
	"github.com/kilianp07/avpp/core/plant"
)

// direction selects the positive (rising) or negative (falling) ramp.
type direction int

const (
	rising direction = iota
	falling
)

// DeriveRampDeltas builds the positive and negative ramp delta functions of
// node from its temporal steps and attaches them. The positive function maps
// the current output to the highest output reachable in one step, the
// negative one to the lowest.
func (a *Abstractor) DeriveRampDeltas(node *plant.Data, children []*plant.Data) (pos, neg *pwl.Function, err error) {
	if len(node.Steps) == 0 {
		return nil, nil, fmt.Errorf("ramp deltas of %s: %w", node.Name, ErrNoSteps)
	}
	pos, err = a.rampDelta(node, children, rising)
	if err != nil {
		return nil, nil, fmt.Errorf("positive ramp delta of %s: %w", node.Name, err)
	}
	neg, err = a.rampDelta(node, children, falling)
	if err != nil {
		return nil, nil, fmt.Errorf("negative ramp delta of %s: %w", node.Name, err)
	}
	node.PositiveDelta, node.NegativeDelta = pos, neg
	a.log.Debugw("ramp deltas", map[string]any{
		"node":      node.Name,
		"positive":  pos.Pairs(),
		"negative":  neg.Pairs(),
		"max_slope": pos.MaxSlope(),
	})
	return pos, neg, nil
}

func (a *Abstractor) rampDelta(node *plant.Data, children []*plant.Data, dir direction) (*pwl.Function, error) {
	totalNow := currentOutput(children)
	var extremal float64
	for _, c := range children {
		if b, ok := c.BoundsOrRegion(); ok {
			extremal += pick(dir, b.Min, b.Max)
		}
	}

	var pairs []pwl.Pair
	if math.Abs(extremal-totalNow) > a.cfg.ExtremalTolerance {
		probe, err := a.probe(node.Name, children, dir)
		if err != nil {
			return nil, err
		}
		if len(probe.Steps) > 0 {
			r := probe.Steps[0].Regions
			pairs = append(pairs, pwl.Pair{In: extremal, Out: pick(dir, r.Last().Max, r.First().Min)})
		}
	}

	pNow := totalNow
	for _, step := range node.Steps {
		pNext := pick(dir, step.Last().Max, step.First().Min)
		if math.Abs(pNow-pNext) < a.cfg.Jitter {
			break
		}
		pairs = append(pairs, pwl.Pair{In: pNow, Out: pNext})
		pNow = pNext
	}

	if len(pairs) == 0 {
		pairs = append(pairs, pwl.Pair{In: totalNow, Out: totalNow})
	}
	if len(pairs) == 1 {
		// the whole range is reachable in one step; extrapolate linearly
		first := node.Steps[0]
		var p pwl.Pair
		if dir == rising {
			pMax := first.Last().Max
			p = pwl.Pair{In: pMax, Out: pMax + (pMax - totalNow)}
		} else {
			pMin := first.First().Min
			p = pwl.Pair{In: pMin, Out: pMin - (extremal - pMin)}
		}
		if p.In == pairs[0].In {
			shift := pick(dir, 1.0, -1.0)
			p = pwl.Pair{In: pairs[0].In + shift, Out: pairs[0].Out + shift}
		}
		pairs = append(pairs, p)
	}

	slices.SortStableFunc(pairs, func(x, y pwl.Pair) int { return cmp.Compare(x.In, y.In) })
	pairs = slices.CompactFunc(pairs, func(x, y pwl.Pair) bool { return x.In == y.In })
	return pwl.FromPairs(pairs)
}

// probe simulates one step with every concrete child starting at its
// minimum (rising) or maximum (falling) output while running.
func (a *Abstractor) probe(node string, children []*plant.Data, dir direction) (TemporalResult, error) {
	members := make([]member, 0, len(children))
	for _, c := range children {
		m := member{data: c}
		if !c.Aggregate {
			b, _ := c.BoundsOrRegion()
			st := plant.NewState(c)
			st.Power = interval.Point(pick(dir, b.Min, b.Max))
			st.Running = interval.Bool{Min: true, Max: true}
			st.ConsRunning = interval.Point(1)
			st.ConsStopping = interval.Point(0)
			m.state = st
		}
		members = append(members, m)
	}
	src := func(d *plant.Data, _ int) interval.Set {
		b, ok := d.BoundsOrRegion()
		if !ok {
			return interval.Set{}
		}
		if dir == rising && d.PositiveDelta != nil {
			return interval.Set{interval.New(b.Min, max(b.Min, d.PositiveDelta.Evaluate(b.Min)))}
		}
		if dir == falling && d.NegativeDelta != nil {
			return interval.Set{interval.New(min(b.Max, d.NegativeDelta.Evaluate(b.Max)), b.Max)}
		}
		return d.GeneralRegion()
	}
	return a.simulate(node, members, 1, nil, src, false)
}

func pick[T any](dir direction, up, down T) T {
	if dir == rising {
		return up
	}
	return down
}
