package plant

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/avpp/core/constraint"
	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/pwl"
)

var (
	ErrMissingBounds      = errors.New("plant has neither boundaries nor feasible regions")
	ErrInvalidBounds      = errors.New("plant boundaries have min greater than max")
	ErrForceOnEmptyBounds = errors.New("force-on plant has empty boundaries")
)

// Initial holds the state a plant starts a simulation from.
type Initial struct {
	Power        float64 `json:"power" yaml:"power"`
	ConsRunning  int     `json:"cons_running" yaml:"cons_running"`
	ConsStopping int     `json:"cons_stopping" yaml:"cons_stopping"`
}

// Running reports whether a plant with these counters is running. A plant
// without any counter history is assumed to be running.
func (i Initial) Running() bool {
	return i.ConsRunning > 0 || i.ConsStopping == 0
}

// Data is a concrete power plant or an AVPP. Fields below the marker are
// derived by the abstraction engine and overwritten on every run.
type Data struct {
	ID        ID
	Name      string
	Aggregate bool

	Boundaries  *interval.Float
	Constraints []constraint.Constraint
	Initial     Initial
	CostPerKWh  float64

	Parent   ID
	Children []ID

	// derived
	FeasibleRegions interval.Set
	Holes           interval.Set
	Steps           []interval.Set
	StepHoles       []interval.Set
	PositiveDelta   *pwl.Function
	NegativeDelta   *pwl.Function

	initialDerived bool
}

// NewPlant returns a concrete plant with the given boundaries.
func NewPlant(name string, min, max float64, cs ...constraint.Constraint) *Data {
	b := interval.New(min, max)
	d := &Data{Name: name, Boundaries: &b, Parent: None}
	for _, c := range cs {
		d.AddConstraint(c)
	}
	return d
}

// NewAggregate returns an AVPP node without children.
func NewAggregate(name string) *Data {
	return &Data{Name: name, Aggregate: true, Parent: None}
}

// AddConstraint attaches c and assigns its per-kind running id.
func (d *Data) AddConstraint(c constraint.Constraint) {
	id := 0
	for _, o := range d.Constraints {
		if o.Kind == c.Kind {
			id++
		}
	}
	c.ID = id
	d.Constraints = append(d.Constraints, c)
}

// HasConstraint reports whether a hard constraint of kind k is attached.
func (d *Data) HasConstraint(k constraint.Kind) bool {
	for _, c := range d.Constraints {
		if c.Kind == k && !c.Soft {
			return true
		}
	}
	return false
}

// CanBeOff reports whether the plant may be switched off.
func (d *Data) CanBeOff() bool { return !d.HasConstraint(constraint.KindForceOn) }

// Validate checks the static configuration of the plant.
func (d *Data) Validate() error {
	if d.Boundaries == nil {
		if d.FeasibleRegions == nil && !(d.Aggregate && len(d.Children) > 0) {
			return fmt.Errorf("plant %s: %w", d.Name, ErrMissingBounds)
		}
		return nil
	}
	if d.Boundaries.Min > d.Boundaries.Max {
		return fmt.Errorf("plant %s %v: %w", d.Name, *d.Boundaries, ErrInvalidBounds)
	}
	if !d.CanBeOff() && d.Boundaries.Max <= 0 {
		return fmt.Errorf("plant %s %v: %w", d.Name, *d.Boundaries, ErrForceOnEmptyBounds)
	}
	return nil
}

// GeneralRegion returns the interval set the plant contributes to the
// general abstraction of its parent.
func (d *Data) GeneralRegion() interval.Set {
	if d.FeasibleRegions != nil && (d.Aggregate || d.Boundaries == nil) {
		return d.FeasibleRegions.Clone()
	}
	if d.Boundaries == nil {
		return interval.Set{}
	}
	b := d.Boundaries.Copy()
	if d.CanBeOff() && b.Min > 0 {
		return interval.Set{interval.Zero(), b}
	}
	return interval.Set{b}
}

// BoundsOrRegion returns the boundaries, or the hull of the feasible regions
// for aggregates without explicit boundaries.
func (d *Data) BoundsOrRegion() (interval.Float, bool) {
	if d.Boundaries != nil {
		return *d.Boundaries, true
	}
	if len(d.FeasibleRegions) == 0 {
		return interval.Float{}, false
	}
	return interval.New(d.FeasibleRegions.First().Min, d.FeasibleRegions.Last().Max), true
}

// MakeBoundsConsistent widens the feasible region closest to p so that it
// contains p. It reports whether a region was changed.
func (d *Data) MakeBoundsConsistent(p float64) bool {
	if len(d.FeasibleRegions) == 0 {
		if d.Boundaries == nil || d.Boundaries.Contains(p) {
			return false
		}
		d.Boundaries.Min = min(d.Boundaries.Min, p)
		d.Boundaries.Max = max(d.Boundaries.Max, p)
		return true
	}
	closest, best := -1, math.Inf(1)
	for k, r := range d.FeasibleRegions {
		if r.Contains(p) {
			return false
		}
		dist := r.Min - p
		if r.Max < p {
			dist = p - r.Max
		}
		if dist < best {
			closest, best = k, dist
		}
	}
	r := &d.FeasibleRegions[closest]
	if r.Min > p {
		r.Min = p
	} else {
		r.Max = p
	}
	return true
}

// CostFunction returns the linear production cost over the boundaries, or
// nil if the plant has no cost.
func (d *Data) CostFunction() (*pwl.Function, error) {
	if d.CostPerKWh == 0 || d.Boundaries == nil {
		return nil, nil
	}
	if d.Boundaries.IsPoint() {
		return nil, nil
	}
	return pwl.FromLinear(d.Boundaries.Min, d.Boundaries.Max, d.CostPerKWh)
}

// DeriveInitialPower sets the initial output of an aggregate to p unless an
// explicit initial output was given.
func (d *Data) DeriveInitialPower(p float64) {
	if d.Initial.Power != 0 && !d.initialDerived {
		return
	}
	d.Initial.Power = p
	d.initialDerived = true
}

// ResetDerived clears everything the abstraction engine attached.
func (d *Data) ResetDerived() {
	if d.initialDerived {
		d.Initial.Power = 0
		d.initialDerived = false
	}
	if d.Aggregate && len(d.Children) > 0 {
		d.FeasibleRegions = nil
	}
	d.Holes = nil
	d.Steps = nil
	d.StepHoles = nil
	d.PositiveDelta = nil
	d.NegativeDelta = nil
}

func (d *Data) String() string { return d.Name }
