// Package ui renders built flamegraph views as the JSON tree the web UI
// consumes.
package ui

import (
	"github.com/flamescale/flamescale/pkg/calltree"
	"github.com/flamescale/flamescale/pkg/flamegraph"
)

type Flamegraph struct {
	Root         *CallTreeNode `json:"root"`
	Frames       []FlatFrame   `json:"frames"`
	Depth        int           `json:"depth"`
	ConfigSpace  Rect          `json:"config_space"`
	Inverted     bool          `json:"inverted"`
	Sort         string        `json:"sort"`
	ProfileIndex int           `json:"profile_index"`
}

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

type CallTreeNode struct {
	Name      string          `json:"name"`
	Start     float64         `json:"start"`
	End       float64         `json:"end"`
	Depth     int             `json:"depth"`
	Value     float64         `json:"value"`
	Self      float64         `json:"self"`
	Duration  string          `json:"duration"`
	Collapsed []string        `json:"collapsed,omitempty"`
	Children  []*CallTreeNode `json:"children,omitempty"`
}

// FlatFrame is one row-ready entry of the flattened node sequence.
type FlatFrame struct {
	Name          string  `json:"name"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Depth         int     `json:"depth"`
	IsApplication bool    `json:"is_application"`
}

// Render converts a built view into its JSON form.
func Render(fg *flamegraph.Flamegraph) *Flamegraph {
	format := fg.Formatter()

	flat := make([]FlatFrame, 0, len(fg.Frames()))
	for _, n := range fg.Frames() {
		flat = append(flat, FlatFrame{
			Name:          n.Frame.Name,
			Start:         n.Start,
			End:           n.End,
			Depth:         n.Depth,
			IsApplication: n.Frame.IsApplication,
		})
	}

	cs := fg.ConfigSpace()
	return &Flamegraph{
		Root:         renderNode(fg.Root(), format),
		Frames:       flat,
		Depth:        fg.Depth(),
		ConfigSpace:  Rect{X: cs.X, Y: cs.Y, W: cs.W, H: cs.H},
		Inverted:     fg.Inverted(),
		Sort:         fg.Sort().String(),
		ProfileIndex: fg.ProfileIndex(),
	}
}

func renderNode(n *calltree.Node, format flamegraph.DurationFormatter) *CallTreeNode {
	node := &CallTreeNode{
		Name:     n.Frame.Name,
		Start:    n.Start,
		End:      n.End,
		Depth:    n.Depth,
		Value:    n.TotalWeight,
		Self:     n.SelfWeight,
		Duration: format(n.TotalWeight),
	}
	for _, f := range n.Collapsed {
		node.Collapsed = append(node.Collapsed, f.Name)
	}
	for _, child := range n.Children {
		node.Children = append(node.Children, renderNode(child, format))
	}
	return node
}
