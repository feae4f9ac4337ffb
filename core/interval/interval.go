package interval

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// Number restricts intervals to ordered numeric types.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Interval is a closed range [Min, Max]. Equal bounds denote a single point,
// e.g. an "off" plant is [0 0].
type Interval[T Number] struct {
	Min T `json:"min" yaml:"min"`
	Max T `json:"max" yaml:"max"`
}

// Float is the interval type used for power values.
type Float = Interval[float64]

// New returns [min, max].
func New[T Number](min, max T) Interval[T] {
	return Interval[T]{Min: min, Max: max}
}

// Point returns the degenerate interval [v, v].
func Point[T Number](v T) Interval[T] {
	return Interval[T]{Min: v, Max: v}
}

// Zero is the feasible region of a plant that is switched off.
func Zero() Float { return Float{} }

// Copy returns an independently owned interval with the same bounds.
func (i Interval[T]) Copy() Interval[T] {
	return Interval[T]{Min: i.Min, Max: i.Max}
}

// Plus implements interval addition: [a.Min+b.Min, a.Max+b.Max].
func Plus[T Number](a, b Interval[T]) Interval[T] {
	return Interval[T]{Min: a.Min + b.Min, Max: a.Max + b.Max}
}

// Compare orders intervals by Min, then by Max. Intervals are values, so two
// members comparing equal are interchangeable; Set.Sorted keeps them in input
// order.
func Compare[T Number](a, b Interval[T]) int {
	switch {
	case a.Min < b.Min:
		return -1
	case a.Min > b.Min:
		return 1
	case a.Max < b.Max:
		return -1
	case a.Max > b.Max:
		return 1
	}
	return 0
}

// Equal reports exact equality of both bounds.
func (i Interval[T]) Equal(o Interval[T]) bool {
	return i.Min == o.Min && i.Max == o.Max
}

// Contains reports whether v lies within the closed range.
func (i Interval[T]) Contains(v T) bool {
	return i.Min <= v && v <= i.Max
}

// Width returns Max - Min.
func (i Interval[T]) Width() T { return i.Max - i.Min }

// IsPoint reports whether the interval holds a single value.
func (i Interval[T]) IsPoint() bool { return i.Min == i.Max }

func (i Interval[T]) String() string {
	return fmt.Sprintf("[%v %v]", i.Min, i.Max)
}

// ApproxEqual compares both bounds with an absolute tolerance.
func ApproxEqual(a, b Float, tol float64) bool {
	return scalar.EqualWithinAbs(a.Min, b.Min, tol) && scalar.EqualWithinAbs(a.Max, b.Max, tol)
}

// Bool is the on/off envelope of a plant: Min is "must be on", Max is "may be on".
type Bool struct {
	Min bool `json:"min"`
	Max bool `json:"max"`
}

// OnlyOn reports a plant that is certainly running.
func (b Bool) OnlyOn() bool { return b.Min && b.Max }

// OnlyOff reports a plant that is certainly stopped.
func (b Bool) OnlyOff() bool { return !b.Min && !b.Max }

// OnOrOff reports a plant whose running state is undecided.
func (b Bool) OnOrOff() bool { return !b.OnlyOn() && !b.OnlyOff() }

func (b Bool) String() string {
	return fmt.Sprintf("[%t %t]", b.Min, b.Max)
}
