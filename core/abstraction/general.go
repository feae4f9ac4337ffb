package abstraction

import (
	"fmt"
	"time"

	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/merge"
	"github.com/kilianp07/avpp/core/metrics"
	"github.com/kilianp07/avpp/core/plant"
)

// ChildRegions returns the general interval set of every child, in order.
func ChildRegions(children []*plant.Data) []interval.Set {
	sets := make([]interval.Set, 0, len(children))
	for _, c := range children {
		if c == nil {
			sets = append(sets, interval.Set{})
			continue
		}
		sets = append(sets, c.GeneralRegion())
	}
	return sets
}

// General computes the static feasible region and holes of the children's
// summed output.
func General(children []*plant.Data) merge.Result {
	return merge.Detect(ChildRegions(children))
}

// GeneralAbstract validates the children, computes their general abstraction
// and attaches it to node.
func (a *Abstractor) GeneralAbstract(node *plant.Data, children []*plant.Data) (merge.Result, error) {
	start := time.Now()
	for _, c := range children {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return merge.Result{}, fmt.Errorf("general abstraction of %s: %w", node.Name, err)
		}
	}

	res := General(children)
	node.FeasibleRegions = res.Regions
	node.Holes = res.Holes

	a.log.Infof("general abstraction of %s: regions=%v holes=%v", node.Name, res.Regions, res.Holes)
	ev := metrics.AbstractionEvent{
		Node:     node.Name,
		Kind:     metrics.KindGeneral,
		Regions:  len(res.Regions),
		Holes:    len(res.Holes),
		Duration: time.Since(start),
		Time:     start,
	}
	if len(res.Regions) > 0 {
		ev.Min, ev.Max = res.Regions.First().Min, res.Regions.Last().Max
	}
	a.record(ev)
	return res, nil
}
