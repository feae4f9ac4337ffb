package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetHoles(t *testing.T) {
	s := Set{New(0.0, 0.0), New(15.0, 20.0), New(24.0, 36.0)}
	assert.Equal(t, Set{New(0.0, 15.0), New(20.0, 24.0)}, s.Holes())

	assert.NotNil(t, Set{}.Holes())
	assert.Empty(t, Set{New(1.0, 2.0)}.Holes())
}

func TestSetFirstLast(t *testing.T) {
	s := Set{New(0.0, 0.0), New(15.0, 101.0)}
	assert.Equal(t, New(0.0, 0.0), s.First())
	assert.Equal(t, New(15.0, 101.0), s.Last())
	assert.Equal(t, 2, s.Len())
}

func TestSetSortedDoesNotMutate(t *testing.T) {
	s := Set{New(5.0, 6.0), New(1.0, 2.0), New(1.0, 1.5)}
	sorted := s.Sorted()
	require.Equal(t, Set{New(1.0, 1.5), New(1.0, 2.0), New(5.0, 6.0)}, sorted)
	assert.Equal(t, New(5.0, 6.0), s[0])
}

func TestSetSortedKeepsEqualMembers(t *testing.T) {
	s := Set{New(3.0, 4.0), New(1.0, 2.0), New(3.0, 4.0), New(1.0, 2.0)}
	sorted := s.Sorted()
	assert.Equal(t, Set{New(1.0, 2.0), New(1.0, 2.0), New(3.0, 4.0), New(3.0, 4.0)}, sorted)
	assert.Equal(t, 0, Compare(sorted[0], sorted[1]))
	assert.Equal(t, sorted, sorted.Sorted())
}

func TestSetClone(t *testing.T) {
	s := Set{New(1.0, 2.0)}
	c := s.Clone()
	c[0].Max = 9
	assert.Equal(t, 2.0, s[0].Max)
	assert.Nil(t, Set(nil).Clone())
}

func TestSetContains(t *testing.T) {
	s := Set{New(0.0, 0.0), New(15.0, 20.0)}
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(17))
	assert.False(t, s.Contains(10))
}

func TestSetApproxEqual(t *testing.T) {
	a := Set{New(30.0, 200.0)}
	b := Set{New(30.05, 199.95)}
	assert.True(t, a.ApproxEqual(b, 0.1))
	assert.False(t, a.ApproxEqual(Set{}, 0.1))
	assert.True(t, ApproxEqualSets([]Set{a}, []Set{b}, 0.1))
	assert.False(t, ApproxEqualSets([]Set{a}, []Set{a, b}, 0.1))
}

func TestSetString(t *testing.T) {
	assert.Equal(t, "{[0 0], [15 101]}", Set{New(0.0, 0.0), New(15.0, 101.0)}.String())
	assert.Equal(t, "{}", Set{}.String())
}
