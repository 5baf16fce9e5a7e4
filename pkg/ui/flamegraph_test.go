package ui

import (
	"testing"

	"github.com/flamescale/flamescale/pkg/flamegraph"
	"github.com/flamescale/flamescale/pkg/frame"
	"github.com/flamescale/flamescale/pkg/profile"
	"github.com/flamescale/flamescale/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	reg := frame.NewRegistry([]frame.Descriptor{{Name: "a"}, {Name: "b"}}, "")
	prof, err := profile.FromTrace(&trace.Trace{
		StartValue: 0,
		EndValue:   10,
		Unit:       trace.UnitMilliseconds,
		Samples:    [][]int{{0}, {0, 1}},
		Weights:    []float64{4, 6},
	}, reg, profile.FlameGraphView)
	require.NoError(t, err)

	fg, err := flamegraph.New(prof, 2, flamegraph.Options{Sort: flamegraph.SortLeftHeavy})
	require.NoError(t, err)

	view := Render(fg)

	assert.Equal(t, 2, view.ProfileIndex)
	assert.Equal(t, "left-heavy", view.Sort)
	assert.False(t, view.Inverted)
	assert.Equal(t, 2, view.Depth)
	assert.Equal(t, 10.0, view.ConfigSpace.W)

	require.Len(t, view.Frames, 2)
	assert.Equal(t, "a", view.Frames[0].Name)
	assert.Equal(t, "b", view.Frames[1].Name)

	require.NotNil(t, view.Root)
	assert.Equal(t, frame.RootFrameName, view.Root.Name)
	require.Len(t, view.Root.Children, 1)

	a := view.Root.Children[0]
	assert.Equal(t, 10.0, a.Value)
	assert.Equal(t, 4.0, a.Self)
	assert.Equal(t, "10.00ms", a.Duration)
}
