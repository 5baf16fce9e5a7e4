package calltree

import (
	"testing"

	"github.com/flamescale/flamescale/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemRegistry(t *testing.T) *frame.Registry {
	appFlag := func(v bool) *bool { return &v }
	// 0 main (app), 1-3 sys frames, 4 work (app)
	return frame.NewRegistry([]frame.Descriptor{
		{Name: "main", IsApplication: appFlag(true)},
		{Name: "sys1", IsApplication: appFlag(false)},
		{Name: "sys2", IsApplication: appFlag(false)},
		{Name: "sys3", IsApplication: appFlag(false)},
		{Name: "work", IsApplication: appFlag(true)},
	}, "")
}

func frameNames(frames []*frame.Frame) []string {
	names := make([]string, len(frames))
	for i, f := range frames {
		names[i] = f.Name
	}
	return names
}

func TestSystemFrameCollapser_mergeAndCollapse(t *testing.T) {
	reg := systemRegistry(t)

	tree, err := BuildSampled(reg,
		[][]int{
			{0, 1, 2, 3, 4}, // main sys1 sys2 sys3 work
			{0, 1, 2},       // main sys1 sys2
			{1, 4},          // sys1 work
		},
		[]float64{3, 2, 1},
	)
	require.NoError(t, err)

	collapsed := Collapse(tree, SystemFrameCollapser{})
	require.NotSame(t, tree, collapsed)

	root := collapsed.Root
	assert.Equal(t, 6.0, root.TotalWeight)
	require.Len(t, root.Children, 2)

	// stack 1 and 2 share the "main" top frame
	main := root.Children[0]
	assert.Equal(t, "main", main.Frame.Name)
	assert.Equal(t, 5.0, main.TotalWeight)
	assert.Empty(t, main.Collapsed)
	require.Len(t, main.Children, 2)

	// run sys1,sys2,sys3 collapses into sys3 carrying the earlier two
	sys3 := main.Children[1]
	assert.Equal(t, "sys3", sys3.Frame.Name)
	assert.Equal(t, 3.0, sys3.TotalWeight)
	assert.Equal(t, []string{"sys1", "sys2"}, frameNames(sys3.Collapsed))

	require.Len(t, sys3.Children, 1)
	work := sys3.Children[0]
	assert.Equal(t, "work", work.Frame.Name)
	assert.Equal(t, 3.0, work.TotalWeight)
	assert.Equal(t, 3.0, work.SelfWeight)

	// run sys1,sys2 collapses into sys2 carrying sys1; the shallower
	// stack finalizes first and is merged first
	sys2 := main.Children[0]
	assert.Equal(t, "sys2", sys2.Frame.Name)
	assert.Equal(t, 2.0, sys2.TotalWeight)
	assert.Equal(t, 2.0, sys2.SelfWeight)
	assert.Equal(t, []string{"sys1"}, frameNames(sys2.Collapsed))

	// the frame adjacent to the root is exempt even when it is a system
	// frame
	sys1 := root.Children[1]
	assert.Equal(t, "sys1", sys1.Frame.Name)
	assert.Equal(t, 1.0, sys1.TotalWeight)
	assert.Empty(t, sys1.Collapsed)
	require.Len(t, sys1.Children, 1)
	assert.Equal(t, "work", sys1.Children[0].Frame.Name)
}

func TestSystemFrameCollapser_singletonRunUntouched(t *testing.T) {
	reg := systemRegistry(t)

	// main sys1 work: the lone system frame is not a run
	tree, err := BuildSampled(reg, [][]int{{0, 1, 4}}, []float64{1})
	require.NoError(t, err)

	collapsed := Collapse(tree, SystemFrameCollapser{})

	main := collapsed.Root.Children[0]
	sys1 := main.Children[0]
	assert.Equal(t, "sys1", sys1.Frame.Name)
	assert.Empty(t, sys1.Collapsed)
	assert.Equal(t, "work", sys1.Children[0].Frame.Name)
}

func TestCollapse_identityReturnsSameTree(t *testing.T) {
	reg := systemRegistry(t)
	tree, err := BuildSampled(reg, [][]int{{0, 4}}, []float64{1})
	require.NoError(t, err)

	assert.Same(t, tree, Collapse(tree, nil))
	assert.Same(t, tree, Collapse(tree, IdentityCollapser()))
}
