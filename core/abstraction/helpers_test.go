package abstraction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/avpp/core/constraint"
	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/plant"
)

// simplePlant may be switched off once it ramped down to its minimum.
func simplePlant(name string, min, max, current, change float64) *plant.Data {
	d := plant.NewPlant(name, min, max, constraint.Bounds(), constraint.GraduallyOff(), constraint.FixedChange(change))
	d.Initial = plant.Initial{Power: current, ConsRunning: 1}
	return d
}

// onPlant is a simplePlant that must always run.
func onPlant(name string, min, max, current, change float64) *plant.Data {
	d := simplePlant(name, min, max, current, change)
	d.AddConstraint(constraint.ForceOn())
	return d
}

// fixedPlant carries the full canonical constraint set.
func fixedPlant(name string, min, max, current, change float64) *plant.Data {
	d := plant.NewPlant(name, min, max,
		constraint.Bounds(), constraint.GraduallyOff(), constraint.StartWithMin(),
		constraint.FixedChange(change), constraint.ForceOn())
	d.Initial = plant.Initial{Power: current, ConsRunning: 1}
	return d
}

func aggregate(name string, general interval.Set, steps ...interval.Set) *plant.Data {
	d := plant.NewAggregate(name)
	d.FeasibleRegions = general
	d.Steps = steps
	return d
}

func set(bounds ...float64) interval.Set {
	s := make(interval.Set, 0, len(bounds)/2)
	for i := 0; i+1 < len(bounds); i += 2 {
		s = append(s, interval.New(bounds[i], bounds[i+1]))
	}
	return s
}

func newAbstractor(t *testing.T, cfg Config, opts ...Option) *Abstractor {
	t.Helper()
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	return a
}

// withGeneral runs the general abstraction first, as a scheduler does.
func withGeneral(t *testing.T, a *Abstractor, children ...*plant.Data) *plant.Data {
	t.Helper()
	node := plant.NewAggregate("avpp")
	_, err := a.GeneralAbstract(node, children)
	require.NoError(t, err)
	return node
}

func assertSteps(t *testing.T, want []interval.Set, got []interval.Set) {
	t.Helper()
	require.Truef(t, interval.ApproxEqualSets(want, got, 0.1), "want %v, got %v", want, got)
}
