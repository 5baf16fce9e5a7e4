package calltree

import (
	"github.com/flamescale/flamescale/pkg/frame"
	"golang.org/x/xerrors"
)

// BuildSampled merges weighted stack samples into a call tree. Each sample
// lists frame indexes from outermost to innermost; samples sharing a prefix
// share nodes along that prefix. A sample's weight goes to the total weight
// of every node on its path and to the self weight of the leaf only. An
// empty sample weights the root alone.
//
// Samples are merged in input order and first-seen child order is kept, so
// later stable sorts see a deterministic baseline.
func BuildSampled(reg *frame.Registry, samples [][]int, weights []float64) (*Tree, error) {
	if len(samples) != len(weights) {
		return nil, xerrors.Errorf("sample count %d does not match weight count %d", len(samples), len(weights))
	}

	root := NewRoot()
	for i, sample := range samples {
		w := weights[i]
		root.TotalWeight += w

		node := root
		for _, idx := range sample {
			f := reg.FrameAt(idx)
			if f == nil {
				return nil, xerrors.Errorf("sample %d references unknown frame index %d", i, idx)
			}
			node = childFor(node, f)
			node.TotalWeight += w
			f.TotalWeight += w
		}

		node.SelfWeight += w
		if node != root {
			node.Frame.SelfWeight += w
		}
	}

	return &Tree{Root: root}, nil
}

// childFor finds the child of n holding f, creating it in last position when
// absent. Children are matched by canonical frame identity.
func childFor(n *Node, f *frame.Frame) *Node {
	for _, child := range n.Children {
		if child.Frame == f {
			return child
		}
	}
	child := &Node{
		Frame:  f,
		Depth:  n.Depth + 1,
		Parent: n,
	}
	n.Children = append(n.Children, child)
	return child
}
