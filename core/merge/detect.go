package merge

import "github.com/kilianp07/avpp/core/interval"

// Result holds the aggregate feasible region of a group of entities together
// with the supply holes between its members.
type Result struct {
	Regions interval.Set `json:"regions"`
	Holes   interval.Set `json:"holes"`
}

// Detect computes the feasible region of the summed production of all
// entities, one interval set per entity, and the holes therein.
//
// An entity with an empty set contributes exactly zero. An empty collection
// yields an empty region and no holes.
func Detect(entities []interval.Set) Result {
	if len(entities) == 0 {
		return Result{Regions: interval.Set{}, Holes: interval.Set{}}
	}

	var agg *list
	for k, s := range entities {
		if len(s) == 0 {
			s = interval.Singleton(interval.Zero())
		}
		if k == 0 {
			agg = fromSet(s)
			continue
		}
		agg = agg.plus(s)
	}

	regions := agg.set()
	return Result{Regions: regions, Holes: regions.Holes()}
}

// ComputeFeasibleRegion is Detect returning its parts separately.
func ComputeFeasibleRegion(entities []interval.Set) (regions, holes interval.Set) {
	r := Detect(entities)
	return r.Regions, r.Holes
}
