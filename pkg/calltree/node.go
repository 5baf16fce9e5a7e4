// Package calltree builds normalized call trees from raw profiling traces.
// A tree is produced once by one of the builders and treated as immutable;
// transforms (inversion, collapsing, layout) work on fresh copies.
package calltree

import (
	"github.com/flamescale/flamescale/pkg/frame"
)

// Node is one occurrence of a frame in the call tree.
//
// Start and End are offsets in the profile's time unit for evented trees, or
// synthetic layout offsets once a weighted layout has run. Parent is a
// non-owning back-reference used for traversal only. Collapsed holds the
// frames a collapse transform folded into this node, in original order.
type Node struct {
	Frame  *frame.Frame
	Start  float64
	End    float64
	Depth  int
	Parent *Node

	Children []*Node

	SelfWeight  float64
	TotalWeight float64

	Collapsed []*frame.Frame
}

// Duration is the node's span width; for weighted layouts this equals
// TotalWeight.
func (n *Node) Duration() float64 {
	return n.End - n.Start
}

// IsRoot reports whether the node is the synthetic root of its tree.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// Tree is a fully built call tree. Ordered holds the chronological finalize
// order of an evented build; it is nil for sampled, inverted or collapsed
// trees, which have no meaningful chronology.
type Tree struct {
	Root    *Node
	Ordered []*Node
}

// NewRoot returns a synthetic root node. Every tree owns its root frame
// record so that cumulative weights never leak between trees.
func NewRoot() *Node {
	return &Node{
		Frame: &frame.Frame{
			Key:  frame.RootFrameName,
			Name: frame.RootFrameName,
		},
		// children of the root sit at depth 0
		Depth: -1,
	}
}

// Clone returns a deep copy of the tree. Frames stay shared; nodes are
// copied so the clone can be reordered and re-spanned by a layout pass
// without touching the source.
func (t *Tree) Clone() *Tree {
	if t == nil || t.Root == nil {
		return &Tree{Root: NewRoot()}
	}
	copies := make(map[*Node]*Node)
	root := cloneNode(t.Root, nil, copies)

	var ordered []*Node
	if t.Ordered != nil {
		ordered = make([]*Node, len(t.Ordered))
		for i, n := range t.Ordered {
			ordered[i] = copies[n]
		}
	}
	return &Tree{Root: root, Ordered: ordered}
}

func cloneNode(n *Node, parent *Node, copies map[*Node]*Node) *Node {
	c := &Node{
		Frame:       n.Frame,
		Start:       n.Start,
		End:         n.End,
		Depth:       n.Depth,
		Parent:      parent,
		SelfWeight:  n.SelfWeight,
		TotalWeight: n.TotalWeight,
	}
	if len(n.Collapsed) > 0 {
		c.Collapsed = append([]*frame.Frame(nil), n.Collapsed...)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = cloneNode(child, c, copies)
		}
	}
	copies[n] = c
	return c
}
