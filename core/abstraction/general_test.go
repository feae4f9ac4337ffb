package abstraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/avpp/core/constraint"
	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/plant"
)

func TestGeneralSwitchablePlants(t *testing.T) {
	a := newAbstractor(t, Config{})
	node := plant.NewAggregate("avpp")
	res, err := a.GeneralAbstract(node, []*plant.Data{
		plant.NewPlant("CPP1", 24, 36, constraint.Bounds(), constraint.GraduallyOff()),
		plant.NewPlant("CPP2", 15, 20, constraint.Bounds(), constraint.GraduallyOff()),
		plant.NewPlant("CPP3", 20, 45, constraint.Bounds(), constraint.GraduallyOff()),
	})
	require.NoError(t, err)
	assert.Equal(t, set(0, 0, 15, 101), res.Regions)
	assert.Equal(t, set(0, 15), res.Holes)
	assert.Equal(t, res.Regions, node.FeasibleRegions)
	assert.Equal(t, res.Holes, node.Holes)
}

func TestGeneralMandatoryOn(t *testing.T) {
	res := General([]*plant.Data{
		plant.NewPlant("CPP1", 10, 100, constraint.ForceOn()),
		plant.NewPlant("CPP2", 20, 100, constraint.ForceOn()),
	})
	assert.Equal(t, set(30, 200), res.Regions)
	assert.Empty(t, res.Holes)
}

func TestGeneralMixedOn(t *testing.T) {
	res := General([]*plant.Data{
		plant.NewPlant("CPP1", 10, 100),
		plant.NewPlant("CPP2", 20, 100, constraint.ForceOn()),
	})
	assert.Equal(t, set(20, 200), res.Regions)
	assert.Empty(t, res.Holes)
}

func TestGeneralUsesAggregateRegions(t *testing.T) {
	sub := aggregate("sub", set(0, 0, 16, 30))
	res := General([]*plant.Data{sub, plant.NewPlant("p", 4, 15, constraint.ForceOn())})
	assert.Equal(t, set(4, 15, 20, 45), res.Regions)
	assert.Equal(t, set(15, 20), res.Holes)
}

func TestGeneralNoChildren(t *testing.T) {
	res := General(nil)
	assert.Empty(t, res.Regions)
	assert.Empty(t, res.Holes)
}

func TestGeneralRejectsInvalidChild(t *testing.T) {
	a := newAbstractor(t, Config{})
	_, err := a.GeneralAbstract(plant.NewAggregate("avpp"), []*plant.Data{
		{Name: "ghost"},
	})
	assert.True(t, errors.Is(err, plant.ErrMissingBounds), "got %v", err)
}

func TestChildRegionsNilChild(t *testing.T) {
	got := ChildRegions([]*plant.Data{nil})
	require.Len(t, got, 1)
	assert.Equal(t, interval.Set{}, got[0])
}
