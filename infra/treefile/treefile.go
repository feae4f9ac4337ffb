// Package treefile reads AVPP tree definitions from YAML.
//
// A file lists root nodes; every node is either a plant with bounds and
// constraints, or an AVPP with children. AVPPs without children must carry
// their feasible regions:
//
//	nodes:
//	  - name: avpp
//	    children:
//	      - name: CPP1
//	        bounds: [10, 100]
//	        constraints:
//	          - kind: bounds
//	          - kind: fixed_change
//	            max_change: 20
//	          - kind: force_on
//	        initial: {power: 30, cons_running: 1}
//	  - name: external
//	    aggregate: true
//	    regions: [[5, 10], [20, 30]]
package treefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/avpp/core/constraint"
	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/merge"
	"github.com/kilianp07/avpp/core/plant"
)

var ErrMalformedRange = errors.New("range must have exactly two values")

// File is the document root.
type File struct {
	Nodes []NodeDef `yaml:"nodes"`
}

// NodeDef describes a plant or an AVPP.
type NodeDef struct {
	Name        string          `yaml:"name"`
	Aggregate   bool            `yaml:"aggregate,omitempty"`
	Bounds      []float64       `yaml:"bounds,omitempty"`
	Regions     [][]float64     `yaml:"regions,omitempty"`
	Constraints []ConstraintDef `yaml:"constraints,omitempty"`
	Initial     plant.Initial   `yaml:"initial,omitempty"`
	CostPerKWh  float64         `yaml:"cost_per_kwh,omitempty"`
	Children    []NodeDef       `yaml:"children,omitempty"`
}

// ConstraintDef describes one constraint. Only the fields of its kind are read.
type ConstraintDef struct {
	Kind   string `yaml:"kind"`
	Soft   bool   `yaml:"soft,omitempty"`
	Weight int    `yaml:"weight,omitempty"`
	// Limits replaces the plant bounds for kind "bounds".
	Limits     []float64 `yaml:"limits,omitempty"`
	Rate       float64   `yaml:"rate,omitempty"`
	MaxChange  float64   `yaml:"max_change,omitempty"`
	MinOnTime  int       `yaml:"min_on_time,omitempty"`
	MinOffTime int       `yaml:"min_off_time,omitempty"`
}

// Load reads and builds the tree stored at path.
func Load(path string) (*plant.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode reads a YAML tree definition from r.
func Decode(r io.Reader) (*plant.Tree, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	return Build(f)
}

// Build converts a parsed file into a tree and validates every node.
func Build(f File) (*plant.Tree, error) {
	t := plant.NewTree()
	for _, n := range f.Nodes {
		if err := add(t, n, plant.None); err != nil {
			return nil, err
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func add(t *plant.Tree, n NodeDef, parent plant.ID) error {
	d, err := n.data()
	if err != nil {
		return fmt.Errorf("node %s: %w", n.Name, err)
	}
	id, err := t.Add(d, parent)
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := add(t, c, id); err != nil {
			return err
		}
	}
	return nil
}

func (n NodeDef) data() (*plant.Data, error) {
	if n.Name == "" {
		return nil, errors.New("name is required")
	}
	var d *plant.Data
	if n.Aggregate || len(n.Children) > 0 {
		d = plant.NewAggregate(n.Name)
	} else {
		d = &plant.Data{Name: n.Name, Parent: plant.None}
	}
	if n.Bounds != nil {
		b, err := toInterval(n.Bounds)
		if err != nil {
			return nil, fmt.Errorf("bounds: %w", err)
		}
		d.Boundaries = &b
	}
	if n.Regions != nil {
		regions := make(interval.Set, 0, len(n.Regions))
		for _, r := range n.Regions {
			iv, err := toInterval(r)
			if err != nil {
				return nil, fmt.Errorf("regions: %w", err)
			}
			regions = append(regions, iv)
		}
		d.FeasibleRegions, d.Holes = regions, interval.Set{}
		if len(regions) > 0 {
			// overlapping or touching ranges are coalesced
			norm := merge.Detect([]interval.Set{regions})
			d.FeasibleRegions, d.Holes = norm.Regions, norm.Holes
		}
	}
	for _, cd := range n.Constraints {
		c, err := cd.constraint()
		if err != nil {
			return nil, err
		}
		d.AddConstraint(c)
	}
	d.Initial = n.Initial
	d.CostPerKWh = n.CostPerKWh
	return d, nil
}

func (cd ConstraintDef) constraint() (constraint.Constraint, error) {
	k, err := constraint.ParseKind(cd.Kind)
	if err != nil {
		return constraint.Constraint{}, err
	}
	var c constraint.Constraint
	switch k {
	case constraint.KindBounds:
		c = constraint.Bounds()
		if cd.Limits != nil {
			l, err := toInterval(cd.Limits)
			if err != nil {
				return c, fmt.Errorf("limits: %w", err)
			}
			c = constraint.BoundsWithin(l.Min, l.Max)
		}
	case constraint.KindRateOfChange:
		c = constraint.RateOfChange(cd.Rate)
	case constraint.KindFixedChange:
		c = constraint.FixedChange(cd.MaxChange)
	case constraint.KindForceOn:
		c = constraint.ForceOn()
	case constraint.KindGraduallyOff:
		c = constraint.GraduallyOff()
	case constraint.KindStartWithMin:
		c = constraint.StartWithMin()
	case constraint.KindStopTime:
		c = constraint.StopTime(cd.MinOnTime, cd.MinOffTime)
	}
	c.Soft = cd.Soft
	c.Weight = cd.Weight
	return c, nil
}

func toInterval(v []float64) (interval.Float, error) {
	if len(v) != 2 {
		return interval.Float{}, fmt.Errorf("%w, got %v", ErrMalformedRange, v)
	}
	if v[0] > v[1] {
		return interval.Float{}, fmt.Errorf("%v: %w", v, plant.ErrInvalidBounds)
	}
	return interval.New(v[0], v[1]), nil
}
