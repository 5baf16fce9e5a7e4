package profile

import (
	"fmt"
	"strings"
)

// ViewType is the caller's hint about which family of views a profile is
// built for. The hint pairs with the sort strategies: chronological ordering
// belongs to flame charts, name ordering to flame graphs.
type ViewType uint8

const (
	UnknownView ViewType = iota
	FlameGraphView
	FlameChartView
)

func ViewTypeFromString(s string) ViewType {
	switch strings.TrimSpace(s) {
	case "flamegraph":
		return FlameGraphView
	case "flamechart":
		return FlameChartView
	}
	return UnknownView
}

func (vt ViewType) String() string {
	switch vt {
	case UnknownView:
		return "unknown"
	case FlameGraphView:
		return "flamegraph"
	case FlameChartView:
		return "flamechart"
	}
	return fmt.Sprintf("ViewType(%d)", uint8(vt))
}
