package calltree

import (
	"github.com/flamescale/flamescale/pkg/frame"
)

// PathEntry is one step of a root-to-leaf path. Collapsed carries the frames
// a collapse transform folded into this step.
type PathEntry struct {
	Frame     *frame.Frame
	Collapsed []*frame.Frame
}

// Path is a weighted root-to-leaf stack. An empty entry list is valid and
// contributes its weight to the root only.
type Path struct {
	Entries []PathEntry
	Weight  float64
}

// Paths decomposes a tree into weighted leaf paths, one per node with
// non-zero self weight, in depth-first first-seen order. Merging the result
// with MergePaths reproduces the tree's aggregate weights exactly.
func Paths(t *Tree) []Path {
	if t == nil || t.Root == nil {
		return nil
	}
	var paths []Path
	if t.Root.SelfWeight != 0 {
		paths = append(paths, Path{Weight: t.Root.SelfWeight})
	}
	var prefix []PathEntry
	var walk func(n *Node)
	walk = func(n *Node) {
		prefix = append(prefix, PathEntry{Frame: n.Frame, Collapsed: n.Collapsed})
		if n.SelfWeight != 0 {
			paths = append(paths, Path{
				Entries: append([]PathEntry(nil), prefix...),
				Weight:  n.SelfWeight,
			})
		}
		for _, child := range n.Children {
			walk(child)
		}
		prefix = prefix[:len(prefix)-1]
	}
	for _, child := range t.Root.Children {
		walk(child)
	}
	return paths
}

// MergePaths builds a tree from weighted paths using the sampled-trie merge.
// Canonical frame cumulative weights are left untouched: the source tree's
// build pass already accounted for them, and a re-merge is a view over the
// same data.
func MergePaths(paths []Path) *Tree {
	root := NewRoot()
	for _, p := range paths {
		root.TotalWeight += p.Weight

		node := root
		for _, entry := range p.Entries {
			node = childFor(node, entry.Frame)
			node.TotalWeight += p.Weight
			if node.Collapsed == nil && len(entry.Collapsed) > 0 {
				node.Collapsed = append([]*frame.Frame(nil), entry.Collapsed...)
			}
		}
		node.SelfWeight += p.Weight
	}
	return &Tree{Root: root}
}

// Invert re-roots the tree by leaf frame: every weighted path is reversed
// and the reversed paths are merged by common suffix of the original stacks.
// Weight accounting is unchanged under reversal.
func Invert(t *Tree) *Tree {
	paths := Paths(t)
	for i := range paths {
		entries := paths[i].Entries
		for l, r := 0, len(entries)-1; l < r; l, r = l+1, r-1 {
			entries[l], entries[r] = entries[r], entries[l]
		}
	}
	return MergePaths(paths)
}
