package flamegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flamescale/flamescale/pkg/calltree"
	"github.com/flamescale/flamescale/pkg/profile"
)

// SortMethod selects how nodes are ordered and laid out.
type SortMethod uint8

const (
	UnknownSort SortMethod = iota
	SortCallOrder
	SortLeftHeavy
	SortAlphabetical
)

func SortFromString(s string) SortMethod {
	switch strings.TrimSpace(s) {
	case "call-order", "call order":
		return SortCallOrder
	case "left-heavy", "left heavy":
		return SortLeftHeavy
	case "alphabetical":
		return SortAlphabetical
	}
	return UnknownSort
}

func (sm SortMethod) String() string {
	switch sm {
	case UnknownSort:
		return "unknown"
	case SortCallOrder:
		return "call-order"
	case SortLeftHeavy:
		return "left-heavy"
	case SortAlphabetical:
		return "alphabetical"
	}
	return fmt.Sprintf("SortMethod(%d)", uint8(sm))
}

// InvalidSortError is returned when the requested sort does not pair with
// the profile's view type: chronological ordering needs a flame chart,
// alphabetical ordering a flame graph. Construction aborts with no partial
// result.
type InvalidSortError struct {
	Sort SortMethod
	View profile.ViewType
}

func (e *InvalidSortError) Error() string {
	return fmt.Sprintf("sort %q is not valid for a %s-typed profile", e.Sort, e.View)
}

func validateSort(vt profile.ViewType, sm SortMethod) error {
	switch sm {
	case SortCallOrder:
		if vt != profile.FlameChartView {
			return &InvalidSortError{Sort: sm, View: vt}
		}
	case SortAlphabetical:
		if vt != profile.FlameGraphView {
			return &InvalidSortError{Sort: sm, View: vt}
		}
	case SortLeftHeavy:
		// valid for both view types
	default:
		return &InvalidSortError{Sort: sm, View: vt}
	}
	return nil
}

// layoutTree orders and positions the tree for the chosen sort, then returns
// the flattened node sequence and the row count. Zero-width nodes never make
// the flattened output. The tree must be private to the caller: weighted
// layouts reorder children and overwrite Start/End in place.
func layoutTree(t *calltree.Tree, sm SortMethod) ([]*calltree.Node, int) {
	switch sm {
	case SortCallOrder:
		if t.Ordered != nil {
			// finalize order of the evented build is already
			// chronological; timestamps stay real
			return t.Ordered, maxDepth(t.Ordered)
		}
		// aggregated trees (inverted or collapsed) have no chronology
		// left; lay out in first-seen order with synthetic offsets
		assignSpans(t.Root, 0)
		frames := flatten(t.Root, false)
		return frames, maxDepth(frames)

	case SortAlphabetical:
		orderChildren(t.Root, func(a, b *calltree.Node) bool {
			return a.Frame.Name < b.Frame.Name
		})
		assignSpans(t.Root, 0)
		frames := flatten(t.Root, true)
		return frames, maxDepth(frames)

	default: // SortLeftHeavy
		orderChildren(t.Root, func(a, b *calltree.Node) bool {
			return a.TotalWeight > b.TotalWeight
		})
		assignSpans(t.Root, 0)
		frames := flatten(t.Root, true)
		return frames, maxDepth(frames)
	}
}

// orderChildren recursively applies a stable sibling ordering; ties keep
// first-seen order.
func orderChildren(n *calltree.Node, less func(a, b *calltree.Node) bool) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return less(n.Children[i], n.Children[j])
	})
	for _, child := range n.Children {
		orderChildren(child, less)
	}
}

// assignSpans overwrites Start/End with cumulative prefix sums of sibling
// total weights: the first ordered subtree occupies the leftmost span.
func assignSpans(n *calltree.Node, at float64) {
	n.Start = at
	n.End = at + n.TotalWeight
	cursor := at
	for _, child := range n.Children {
		assignSpans(child, cursor)
		cursor += child.TotalWeight
	}
}

// flatten walks the tree skipping the synthetic root and pruning zero-width
// subtrees. preorder=false yields a post-order (children first) walk.
func flatten(root *calltree.Node, preorder bool) []*calltree.Node {
	var frames []*calltree.Node
	var walk func(n *calltree.Node)
	walk = func(n *calltree.Node) {
		if n.End == n.Start {
			return
		}
		if preorder {
			frames = append(frames, n)
		}
		for _, child := range n.Children {
			walk(child)
		}
		if !preorder {
			frames = append(frames, n)
		}
	}
	for _, child := range root.Children {
		walk(child)
	}
	return frames
}

func maxDepth(frames []*calltree.Node) int {
	depth := 0
	for _, n := range frames {
		if n.Depth+1 > depth {
			depth = n.Depth + 1
		}
	}
	return depth
}
