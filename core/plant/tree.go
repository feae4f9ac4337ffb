package plant

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrCycle         = errors.New("attachment would create a cycle")
	ErrDuplicateNode = errors.New("duplicate node name")
)

// ID addresses a node in a Tree.
type ID int

// None is the parent of a root node.
const None ID = -1

// Tree is an arena of plants and AVPPs addressed by stable ids. Parent and
// child relations are kept as id lists on the nodes.
type Tree struct {
	nodes  []*Data
	byName map[string]ID
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{byName: make(map[string]ID)}
}

// Add stores d under parent and returns its id. Use None for a root.
func (t *Tree) Add(d *Data, parent ID) (ID, error) {
	if d == nil {
		return None, errors.New("nil node")
	}
	if _, ok := t.byName[d.Name]; ok {
		return None, fmt.Errorf("%w: %s", ErrDuplicateNode, d.Name)
	}
	if parent != None {
		if _, err := t.Node(parent); err != nil {
			return None, err
		}
	}
	id := ID(len(t.nodes))
	d.ID = id
	d.Parent = None
	d.Children = nil
	t.nodes = append(t.nodes, d)
	t.byName[d.Name] = id
	if parent != None {
		if err := t.Attach(id, parent); err != nil {
			return None, err
		}
	}
	return id, nil
}

// Attach moves child below parent.
func (t *Tree) Attach(child, parent ID) error {
	c, err := t.Node(child)
	if err != nil {
		return err
	}
	p, err := t.Node(parent)
	if err != nil {
		return err
	}
	for a := parent; a != None; a = t.nodes[a].Parent {
		if a == child {
			return fmt.Errorf("%w: %s below %s", ErrCycle, c.Name, p.Name)
		}
	}
	if c.Parent != None {
		old := t.nodes[c.Parent]
		for k, id := range old.Children {
			if id == child {
				old.Children = append(old.Children[:k], old.Children[k+1:]...)
				break
			}
		}
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
	p.Aggregate = true
	return nil
}

// Node returns the node with the given id.
func (t *Tree) Node(id ID) (*Data, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownNode, id)
	}
	return t.nodes[id], nil
}

// Lookup resolves a node by name.
func (t *Tree) Lookup(name string) (*Data, error) {
	id, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return t.nodes[id], nil
}

// Children returns the direct children of id in insertion order.
func (t *Tree) Children(id ID) ([]*Data, error) {
	n, err := t.Node(id)
	if err != nil {
		return nil, err
	}
	out := make([]*Data, len(n.Children))
	for k, c := range n.Children {
		out[k] = t.nodes[c]
	}
	return out, nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Nodes returns all nodes in id order.
func (t *Tree) Nodes() []*Data { return append([]*Data(nil), t.nodes...) }

// Roots returns the ids of all nodes without a parent.
func (t *Tree) Roots() []ID {
	var out []ID
	for _, n := range t.nodes {
		if n.Parent == None {
			out = append(out, n.ID)
		}
	}
	return out
}

// PostOrder returns the aggregates below and including id, children first.
func (t *Tree) PostOrder(id ID) ([]ID, error) {
	if _, err := t.Node(id); err != nil {
		return nil, err
	}
	var out []ID
	var walk func(ID)
	walk = func(n ID) {
		for _, c := range t.nodes[n].Children {
			walk(c)
		}
		if t.nodes[n].Aggregate {
			out = append(out, n)
		}
	}
	walk(id)
	return out, nil
}

// Validate checks every node.
func (t *Tree) Validate() error {
	var errs []error
	for _, n := range t.nodes {
		if err := n.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset clears all derived abstraction results.
func (t *Tree) Reset() {
	for _, n := range t.nodes {
		n.ResetDerived()
	}
}
