package plant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/avpp/core/constraint"
	"github.com/kilianp07/avpp/core/interval"
)

func TestAddConstraintAssignsIDs(t *testing.T) {
	d := NewPlant("gas", 10, 100, constraint.Bounds(), constraint.FixedChange(5), constraint.FixedChange(7))
	require.Len(t, d.Constraints, 3)
	assert.Equal(t, 0, d.Constraints[0].ID)
	assert.Equal(t, 0, d.Constraints[1].ID)
	assert.Equal(t, 1, d.Constraints[2].ID)
	assert.Equal(t, "gasFixedChange_1", d.Constraints[2].Ident(d.Name))
}

func TestCanBeOff(t *testing.T) {
	assert.True(t, NewPlant("a", 10, 100).CanBeOff())
	assert.False(t, NewPlant("b", 10, 100, constraint.ForceOn()).CanBeOff())

	soft := constraint.ForceOn()
	soft.Soft = true
	assert.True(t, NewPlant("c", 10, 100, soft).CanBeOff())
}

func TestGeneralRegion(t *testing.T) {
	assert.Equal(t, interval.Set{interval.Zero(), interval.New(24.0, 36.0)}, NewPlant("a", 24, 36).GeneralRegion())
	assert.Equal(t, interval.Set{interval.New(10.0, 100.0)}, NewPlant("b", 10, 100, constraint.ForceOn()).GeneralRegion())
	assert.Equal(t, interval.Set{interval.New(0.0, 100.0)}, NewPlant("c", 0, 100).GeneralRegion())

	agg := NewAggregate("avpp")
	agg.FeasibleRegions = interval.Set{interval.New(5.0, 9.0)}
	got := agg.GeneralRegion()
	got[0].Max = 1
	assert.Equal(t, 9.0, agg.FeasibleRegions[0].Max, "region must be copied")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data *Data
		want error
	}{
		{"valid", NewPlant("ok", 0, 10), nil},
		{"missing", &Data{Name: "none"}, ErrMissingBounds},
		{"inverted", NewPlant("inv", 10, 5), ErrInvalidBounds},
		{"force on empty", NewPlant("fo", 0, 0, constraint.ForceOn()), ErrForceOnEmptyBounds},
		{"aggregate with regions", &Data{Name: "a", Aggregate: true, FeasibleRegions: interval.Set{}}, nil},
		{"aggregate with children", &Data{Name: "b", Aggregate: true, Children: []ID{1}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMakeBoundsConsistent(t *testing.T) {
	d := NewAggregate("a")
	d.FeasibleRegions = interval.Set{interval.New(0.0, 0.0), interval.New(20.0, 40.0), interval.New(60.0, 80.0)}

	assert.False(t, d.MakeBoundsConsistent(30))
	assert.True(t, d.MakeBoundsConsistent(45))
	assert.Equal(t, interval.New(20.0, 45.0), d.FeasibleRegions[1])
	assert.True(t, d.MakeBoundsConsistent(55))
	assert.Equal(t, interval.New(55.0, 80.0), d.FeasibleRegions[2])

	p := NewPlant("p", 10, 20)
	assert.True(t, p.MakeBoundsConsistent(25))
	assert.Equal(t, interval.New(10.0, 25.0), *p.Boundaries)
}

func TestCostFunction(t *testing.T) {
	d := NewPlant("p", 10, 100)
	f, err := d.CostFunction()
	require.NoError(t, err)
	assert.Nil(t, f)

	d.CostPerKWh = 3
	f, err = d.CostFunction()
	require.NoError(t, err)
	assert.InDelta(t, 150.0, f.Evaluate(50), 1e-9)
}

func TestBoundsOrRegion(t *testing.T) {
	b, ok := NewPlant("p", 1, 2).BoundsOrRegion()
	assert.True(t, ok)
	assert.Equal(t, interval.New(1.0, 2.0), b)

	agg := NewAggregate("a")
	_, ok = agg.BoundsOrRegion()
	assert.False(t, ok)
	agg.FeasibleRegions = interval.Set{interval.Zero(), interval.New(15.0, 101.0)}
	b, _ = agg.BoundsOrRegion()
	assert.Equal(t, interval.New(0.0, 101.0), b)
}

func TestDeriveInitialPower(t *testing.T) {
	agg := NewAggregate("avpp")
	agg.DeriveInitialPower(70)
	assert.Equal(t, 70.0, agg.Initial.Power)
	agg.DeriveInitialPower(90)
	assert.Equal(t, 90.0, agg.Initial.Power)
	agg.ResetDerived()
	assert.Zero(t, agg.Initial.Power)

	given := NewAggregate("given")
	given.Initial.Power = 40
	given.DeriveInitialPower(70)
	assert.Equal(t, 40.0, given.Initial.Power)
	given.ResetDerived()
	assert.Equal(t, 40.0, given.Initial.Power)
}
