package calltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths_roundTrip(t *testing.T) {
	reg := testRegistry("a", "b", "c")

	tree, err := BuildSampled(reg,
		[][]int{{0, 1}, {0, 1, 2}, {0}},
		[]float64{4, 2, 1},
	)
	require.NoError(t, err)

	merged := MergePaths(Paths(tree))

	assert.Equal(t, tree.Root.TotalWeight, merged.Root.TotalWeight)
	assertSameShape(t, tree.Root, merged.Root)
}

func assertSameShape(t *testing.T, want, got *Node) {
	t.Helper()
	assert.Equal(t, want.Frame.Name, got.Frame.Name)
	assert.Equal(t, want.TotalWeight, got.TotalWeight)
	assert.Equal(t, want.SelfWeight, got.SelfWeight)
	assert.Equal(t, want.Depth, got.Depth)
	require.Equal(t, len(want.Children), len(got.Children))
	for i := range want.Children {
		assertSameShape(t, want.Children[i], got.Children[i])
	}
}

func TestInvert(t *testing.T) {
	reg := testRegistry("a", "b")

	// a [0,5] with b nested [1,3]: a self 3, b self 2
	tree, err := BuildEvented(reg, []Event{
		{EventOpen, 0, 0},
		{EventOpen, 1, 1},
		{EventClose, 3, 1},
		{EventClose, 5, 0},
	})
	require.NoError(t, err)

	inverted := Invert(tree)
	root := inverted.Root

	// total weight is preserved under re-rooting
	assert.Equal(t, 5.0, root.TotalWeight)
	require.Len(t, root.Children, 2)

	// leaf frames become entry frames
	a := root.Children[0]
	assert.Equal(t, "a", a.Frame.Name)
	assert.Equal(t, 3.0, a.TotalWeight)
	assert.Equal(t, 3.0, a.SelfWeight)
	assert.Empty(t, a.Children)

	b := root.Children[1]
	assert.Equal(t, "b", b.Frame.Name)
	assert.Equal(t, 2.0, b.TotalWeight)
	require.Len(t, b.Children, 1)
	assert.Equal(t, "a", b.Children[0].Frame.Name)
	assert.Equal(t, 2.0, b.Children[0].SelfWeight)

	// chronology does not survive inversion
	assert.Nil(t, inverted.Ordered)
}

func TestInvert_mergesByCommonSuffix(t *testing.T) {
	reg := testRegistry("a", "b", "c")

	// two stacks ending in the same leaf frame c
	tree, err := BuildSampled(reg,
		[][]int{{0, 2}, {1, 2}},
		[]float64{2, 1},
	)
	require.NoError(t, err)

	inverted := Invert(tree)
	require.Len(t, inverted.Root.Children, 1)

	c := inverted.Root.Children[0]
	assert.Equal(t, "c", c.Frame.Name)
	assert.Equal(t, 3.0, c.TotalWeight)
	require.Len(t, c.Children, 2)
	assert.Equal(t, "a", c.Children[0].Frame.Name)
	assert.Equal(t, "b", c.Children[1].Frame.Name)
}

func TestClone_detachesNodes(t *testing.T) {
	reg := testRegistry("a", "b")
	tree, err := BuildEvented(reg, []Event{
		{EventOpen, 0, 0},
		{EventOpen, 1, 1},
		{EventClose, 3, 1},
		{EventClose, 5, 0},
	})
	require.NoError(t, err)

	clone := tree.Clone()
	require.Len(t, clone.Ordered, len(tree.Ordered))

	clone.Root.Children[0].Start = 42
	assert.Equal(t, 0.0, tree.Root.Children[0].Start, "clone must not alias source nodes")

	// frames stay shared
	assert.Same(t, tree.Root.Children[0].Frame, clone.Root.Children[0].Frame)
	// ordered nodes of the clone are the clone's nodes
	assert.Same(t, clone.Root.Children[0], clone.Ordered[1])
}
