// Package profile owns the fully built, un-laid-out call tree of a single
// trace together with its declared unit, duration and thread identity.
// Profiles are constructed once and immutable afterwards; views over them
// are built by pkg/flamegraph.
package profile

import (
	"github.com/flamescale/flamescale/pkg/calltree"
	"github.com/flamescale/flamescale/pkg/frame"
	"github.com/flamescale/flamescale/pkg/trace"
	"golang.org/x/xerrors"
)

type Profile struct {
	name       string
	threadID   int64
	unit       Unit
	startValue float64
	endValue   float64
	viewType   ViewType
	evented    bool

	tree     *calltree.Tree
	registry *frame.Registry
}

// FromTrace builds a profile from a validated raw trace. The registry must
// be the one built from the trace file's frame table. Evented traces with
// unbalanced open/close pairs fail wholesale with
// *calltree.UnbalancedStackError.
func FromTrace(tr *trace.Trace, reg *frame.Registry, vt ViewType) (*Profile, error) {
	if vt == UnknownView {
		return nil, xerrors.New("profile view type must be flamegraph or flamechart")
	}
	unit := UnitFromString(tr.Unit)
	if unit == UnknownUnit {
		return nil, xerrors.Errorf("unknown trace unit %q", tr.Unit)
	}

	p := &Profile{
		name:       tr.Name,
		threadID:   tr.ThreadID,
		unit:       unit,
		startValue: tr.StartValue,
		endValue:   tr.EndValue,
		viewType:   vt,
		evented:    tr.IsEvented(),
		registry:   reg,
	}

	var err error
	if p.evented {
		p.tree, err = calltree.BuildEvented(reg, convertEvents(tr.Events))
	} else {
		p.tree, err = calltree.BuildSampled(reg, tr.Samples, tr.Weights)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Empty returns a profile with no frames, used as the base of canonical
// empty views.
func Empty() *Profile {
	tree, _ := calltree.BuildSampled(frame.NewRegistry(nil, ""), nil, nil)
	return &Profile{
		unit:     Microseconds,
		viewType: FlameGraphView,
		tree:     tree,
	}
}

func (p *Profile) Name() string { return p.name }

func (p *Profile) ThreadID() int64 { return p.threadID }

func (p *Profile) Unit() Unit { return p.unit }

func (p *Profile) ViewType() ViewType { return p.viewType }

func (p *Profile) IsEvented() bool { return p.evented }

func (p *Profile) Registry() *frame.Registry { return p.registry }

// Duration is the nominal trace duration in the profile's unit.
func (p *Profile) Duration() float64 {
	return p.endValue - p.startValue
}

// Tree returns the built call tree. Callers must not mutate it; transforms
// clone first.
func (p *Profile) Tree() *calltree.Tree {
	return p.tree
}

func convertEvents(events []trace.Event) []calltree.Event {
	out := make([]calltree.Event, len(events))
	for i, ev := range events {
		typ := calltree.EventOpen
		if ev.Type == "C" {
			typ = calltree.EventClose
		}
		out[i] = calltree.Event{Type: typ, At: ev.At, Frame: ev.Frame}
	}
	return out
}
