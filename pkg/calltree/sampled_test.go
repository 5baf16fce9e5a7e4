package calltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSampled(t *testing.T) {
	reg := testRegistry("a", "b", "c", "d")

	tree, err := BuildSampled(reg,
		[][]int{
			{0, 1},
			{0, 1, 2},
			{0, 3},
		},
		[]float64{4, 2, 1},
	)
	require.NoError(t, err)

	root := tree.Root
	assert.Equal(t, 7.0, root.TotalWeight)

	require.Len(t, root.Children, 1)
	a := root.Children[0]
	assert.Equal(t, "a", a.Frame.Name)
	assert.Equal(t, 0, a.Depth)
	assert.Equal(t, 7.0, a.TotalWeight)
	assert.Equal(t, 0.0, a.SelfWeight)

	// first-seen child order is preserved
	require.Len(t, a.Children, 2)
	b, d := a.Children[0], a.Children[1]
	assert.Equal(t, "b", b.Frame.Name)
	assert.Equal(t, "d", d.Frame.Name)

	assert.Equal(t, 6.0, b.TotalWeight)
	assert.Equal(t, 4.0, b.SelfWeight)
	assert.Equal(t, 1.0, d.TotalWeight)
	assert.Equal(t, 1.0, d.SelfWeight)

	require.Len(t, b.Children, 1)
	c := b.Children[0]
	assert.Equal(t, 2.0, c.TotalWeight)
	assert.Equal(t, 2.0, c.SelfWeight)
	assert.Equal(t, 2, c.Depth)

	// per-node invariant at every level
	assert.Equal(t, a.TotalWeight, a.SelfWeight+b.TotalWeight+d.TotalWeight)
	assert.Equal(t, b.TotalWeight, b.SelfWeight+c.TotalWeight)

	// sampled trees carry no chronology
	assert.Nil(t, tree.Ordered)
}

func TestBuildSampled_emptySample(t *testing.T) {
	reg := testRegistry("a")

	tree, err := BuildSampled(reg, [][]int{{}, {0}}, []float64{3, 1})
	require.NoError(t, err)

	assert.Equal(t, 4.0, tree.Root.TotalWeight)
	assert.Equal(t, 3.0, tree.Root.SelfWeight)
	require.Len(t, tree.Root.Children, 1)
	assert.Equal(t, 1.0, tree.Root.Children[0].TotalWeight)
}

func TestBuildSampled_mismatchedWeights(t *testing.T) {
	reg := testRegistry("a")
	_, err := BuildSampled(reg, [][]int{{0}}, nil)
	assert.Error(t, err)
}

func TestBuildSampled_unknownFrame(t *testing.T) {
	reg := testRegistry("a")
	_, err := BuildSampled(reg, [][]int{{0, 9}}, []float64{1})
	assert.Error(t, err)
}
