package interval

import (
	"slices"
	"strings"
)

// Set is an ascending list of disjoint power intervals. Sets produced by the
// merge engine never contain touching or overlapping members.
type Set []Float

// Singleton returns a set with a single member.
func Singleton(i Float) Set { return Set{i} }

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// First returns the lowest member. It panics on an empty set.
func (s Set) First() Float { return s[0] }

// Last returns the highest member. It panics on an empty set.
func (s Set) Last() Float { return s[len(s)-1] }

// Clone returns a copy that shares no storage with s.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Sorted returns a copy ordered by Compare. Duplicates are kept; use
// merge.Detect to obtain a disjoint set.
func (s Set) Sorted() Set {
	out := s.Clone()
	slices.SortStableFunc(out, Compare[float64])
	return out
}

// Contains reports whether v is covered by any member.
func (s Set) Contains(v float64) bool {
	for _, i := range s {
		if i.Contains(v) {
			return true
		}
	}
	return false
}

// Holes returns the gaps [s[k].Max, s[k+1].Min] between adjacent members.
func (s Set) Holes() Set {
	if len(s) < 2 {
		return Set{}
	}
	holes := make(Set, 0, len(s)-1)
	for k := 0; k+1 < len(s); k++ {
		holes = append(holes, New(s[k].Max, s[k+1].Min))
	}
	return holes
}

// ApproxEqual compares two sets member by member with tolerance tol.
func (s Set) ApproxEqual(o Set, tol float64) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !ApproxEqual(s[k], o[k], tol) {
			return false
		}
	}
	return true
}

// ApproxEqualSets compares two sequences of sets, e.g. per-step regions.
func ApproxEqualSets(a, b []Set, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !a[k].ApproxEqual(b[k], tol) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for k, i := range s {
		parts[k] = i.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
