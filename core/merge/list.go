package merge

import "github.com/kilianp07/avpp/core/interval"

// list is a sorted run of disjoint intervals. It is private to one call of
// Detect and rebuilt on every fold step.
type list struct {
	nodes []interval.Float
}

// fromSet builds a list by merging in every member of s in order.
func fromSet(s interval.Set) *list {
	l := &list{nodes: make([]interval.Float, 0, len(s))}
	for _, i := range s {
		l.mergeIn(i)
	}
	return l
}

// mergeIn inserts iv and coalesces every node it overlaps or touches.
func (l *list) mergeIn(iv interval.Float) {
	// first node that does not end strictly before iv begins
	at := 0
	for at < len(l.nodes) && l.nodes[at].Max < iv.Min {
		at++
	}
	if at == len(l.nodes) {
		l.nodes = append(l.nodes, iv)
		return
	}
	if l.nodes[at].Min > iv.Max {
		l.nodes = append(l.nodes, interval.Float{})
		copy(l.nodes[at+1:], l.nodes[at:])
		l.nodes[at] = iv
		return
	}

	s := &l.nodes[at]
	s.Min = min(s.Min, iv.Min)
	end := at
	for end < len(l.nodes) && iv.Max >= l.nodes[end].Min {
		s.Max = max(s.Max, l.nodes[end].Max)
		end++
	}
	s.Max = max(s.Max, iv.Max)
	// drop the absorbed run (at, end)
	l.nodes = append(l.nodes[:at+1], l.nodes[end:]...)
}

// plus returns the Minkowski sum of l and s as a new merged list.
func (l *list) plus(s interval.Set) *list {
	combined := make([]interval.Float, 0, len(l.nodes)*len(s))
	for _, left := range l.nodes {
		for _, right := range s {
			combined = append(combined, interval.Plus(left, right))
		}
	}
	out := &list{nodes: make([]interval.Float, 0, len(combined))}
	for _, c := range combined {
		out.mergeIn(c)
	}
	return out
}

func (l *list) len() int { return len(l.nodes) }

func (l *list) set() interval.Set {
	return interval.Set(append([]interval.Float(nil), l.nodes...))
}
