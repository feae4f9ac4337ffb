// Package pwl represents piecewise-linear functions in the breakpoint/slope
// form accepted by MILP solvers: F = (S, T, t0, v0) with n breakpoints T,
// n+1 slopes S and the anchor value v0 = F(t0).
package pwl

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/interp"
)

var (
	ErrTooFewPoints   = errors.New("pwl: at least two input/output pairs required")
	ErrLengthMismatch = errors.New("pwl: inputs and outputs differ in length")
	ErrNonIncreasing  = errors.New("pwl: breakpoints must be strictly increasing")
)

// slopeEpsilon flattens slopes and input steps that are numerically zero.
const slopeEpsilon = 1e-5

// Pair is one sampled input/output relation.
type Pair struct {
	In  float64 `json:"in"`
	Out float64 `json:"out"`
}

// Function is a piecewise-linear function. The zero value is empty.
type Function struct {
	slopes      []float64
	breakpoints []float64
	values      []float64
	firstIn     float64
	firstOut    float64

	ins, outs []float64

	inner interp.PiecewiseLinear
}

// New builds a function with out[i] = F(in[i]). The outer slopes are zero,
// so F is constant below in[0] and above in[n-1].
func New(in, out []float64) (*Function, error) {
	if len(in) != len(out) {
		return nil, ErrLengthMismatch
	}
	n := len(in)
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	f := &Function{
		slopes:      make([]float64, n+1),
		breakpoints: make([]float64, n),
		firstIn:     in[0],
		firstOut:    out[0],
		ins:         slices.Clone(in),
		outs:        slices.Clone(out),
	}
	f.breakpoints[0] = in[0]
	for i := 1; i < n; i++ {
		if d := in[i] - in[i-1]; math.Abs(d) >= slopeEpsilon {
			f.slopes[i] = (out[i] - out[i-1]) / d
		}
		if math.Abs(f.slopes[i]) < slopeEpsilon {
			f.slopes[i] = 0
		}
		f.breakpoints[i] = in[i]
	}
	if err := f.update(); err != nil {
		return nil, err
	}
	return f, nil
}

// FromPairs is New over a slice of pairs.
func FromPairs(pairs []Pair) (*Function, error) {
	in := make([]float64, len(pairs))
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		in[i], out[i] = p.In, p.Out
	}
	return New(in, out)
}

// FromLinear returns F(x) = k*x on [min, max], continued with slope k
// on both sides.
func FromLinear(min, max, k float64) (*Function, error) {
	f := &Function{
		slopes:      []float64{k, k, k},
		breakpoints: []float64{min, max},
		firstIn:     min,
		firstOut:    k * min,
	}
	if err := f.update(); err != nil {
		return nil, err
	}
	return f, nil
}

// update recomputes the values at the breakpoints from (t0, v0) and the
// slopes, then refits the interpolator.
func (f *Function) update() error {
	t, s := f.breakpoints, f.slopes
	for i := 0; i+1 < len(t); i++ {
		if t[i] >= t[i+1] {
			return fmt.Errorf("%w: t[%d]=%g, t[%d]=%g", ErrNonIncreasing, i, t[i], i+1, t[i+1])
		}
	}

	last := len(t) - 1
	cur := slices.IndexFunc(t, func(v float64) bool { return f.firstIn <= v }) - 1
	if cur == -2 {
		cur = last
	}
	v := make([]float64, len(t))
	switch {
	case cur == -1:
		v[0] = f.firstOut + (t[0]-f.firstIn)*s[0]
		cur = 0
	case cur == last:
		v[last] = f.firstOut - (f.firstIn-t[last])*s[len(s)-1]
	default:
		v[cur] = f.firstOut - (f.firstIn-t[cur])*s[cur+1]
	}
	for i := cur + 1; i < len(t); i++ {
		v[i] = v[i-1] + (t[i]-t[i-1])*s[i]
	}
	for i := cur - 1; i >= 0; i-- {
		v[i] = v[i+1] - (t[i+1]-t[i])*s[i]
	}
	f.values = v

	if len(t) < 2 {
		return nil
	}
	return f.inner.Fit(t, v)
}

// Evaluate returns F(x).
func (f *Function) Evaluate(x float64) float64 {
	t, v, s := f.breakpoints, f.values, f.slopes
	switch {
	case len(t) == 0:
		return 0
	case x < t[0]:
		return v[0] - s[0]*(t[0]-x)
	case x > t[len(t)-1]:
		return v[len(v)-1] + s[len(s)-1]*(x-t[len(t)-1])
	case len(t) == 1:
		return v[0]
	}
	return f.inner.Predict(x)
}

// EvaluateBreakpoint returns F at the i-th breakpoint.
func (f *Function) EvaluateBreakpoint(i int) (float64, error) {
	if i < 0 || i >= len(f.values) {
		return 0, fmt.Errorf("pwl: breakpoint %d out of range [0,%d)", i, len(f.values))
	}
	return f.values[i], nil
}

// ProlongAdInfinitum continues the first and last inner slopes towards
// -inf and +inf instead of keeping F constant there.
func (f *Function) ProlongAdInfinitum() {
	if len(f.slopes) < 3 {
		return
	}
	f.slopes[0] = f.slopes[1]
	f.slopes[len(f.slopes)-1] = f.slopes[len(f.slopes)-2]
	_ = f.update()
}

// MaxSlope returns the largest slope, or -Inf for an empty function.
func (f *Function) MaxSlope() float64 {
	m := math.Inf(-1)
	for _, s := range f.slopes {
		m = max(m, s)
	}
	return m
}

// ScaleSlopes multiplies all slopes and the anchor value by factor, so F
// and its samples are scaled by factor.
func (f *Function) ScaleSlopes(factor float64) {
	f.firstOut *= factor
	for i := range f.slopes {
		f.slopes[i] *= factor
	}
	for i := range f.outs {
		f.outs[i] *= factor
	}
	_ = f.update()
}

// IsEmpty reports a function without breakpoints.
func (f *Function) IsEmpty() bool { return f == nil || len(f.breakpoints) == 0 }

// N returns the number of breakpoints.
func (f *Function) N() int { return len(f.breakpoints) }

func (f *Function) FirstIn() float64  { return f.firstIn }
func (f *Function) FirstOut() float64 { return f.firstOut }

func (f *Function) Breakpoints() []float64 { return slices.Clone(f.breakpoints) }
func (f *Function) Slopes() []float64      { return slices.Clone(f.slopes) }

// PaddedBreakpoints returns the breakpoints padded with zeros to n entries,
// used when several functions share one solver array dimension.
func (f *Function) PaddedBreakpoints(n int) []float64 { return pad(f.breakpoints, n) }

// PaddedSlopes returns the slopes padded with zeros to n+1 entries.
func (f *Function) PaddedSlopes(n int) []float64 { return pad(f.slopes, n+1) }

// Pairs returns the samples the function was built from, if any. They stay
// on F: ProlongAdInfinitum only changes F outside the sampled range and
// ScaleSlopes scales them along.
func (f *Function) Pairs() []Pair {
	out := make([]Pair, len(f.ins))
	for i := range f.ins {
		out[i] = Pair{In: f.ins[i], Out: f.outs[i]}
	}
	return out
}

func pad(v []float64, n int) []float64 {
	out := make([]float64, max(n, len(v)))
	copy(out, v)
	return out
}
