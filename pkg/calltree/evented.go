package calltree

import (
	"fmt"

	"github.com/flamescale/flamescale/pkg/frame"
	"golang.org/x/xerrors"
)

type EventType byte

const (
	EventOpen  EventType = 'O'
	EventClose EventType = 'C'
)

// Event is one entry of an evented trace: a frame opening or closing at a
// timestamp.
type Event struct {
	Type  EventType
	At    float64
	Frame int
}

// UnbalancedStackError is returned when an evented trace closes a frame that
// is not at the top of the open stack, or leaves frames open at the end of
// the stream. The build is rejected wholesale; no partial tree is returned.
type UnbalancedStackError struct {
	FrameName string
	At        float64
	Reason    string
}

func (e *UnbalancedStackError) Error() string {
	if e.FrameName == "" {
		return fmt.Sprintf("unbalanced stack: %s at %g", e.Reason, e.At)
	}
	return fmt.Sprintf("unbalanced stack: %s (frame %q at %g)", e.Reason, e.FrameName, e.At)
}

// BuildEvented replays a chronological open/close event stream into a call
// tree. Finalize (close) order is recorded in Tree.Ordered and doubles as
// the chronological flatten order. Zero-width nodes, opened and closed at
// the same timestamp, are dropped before they reach the tree.
func BuildEvented(reg *frame.Registry, events []Event) (*Tree, error) {
	root := NewRoot()
	var (
		stack   []*Node
		ordered []*Node
	)

	for _, ev := range events {
		f := reg.FrameAt(ev.Frame)
		if f == nil {
			return nil, xerrors.Errorf("event references unknown frame index %d", ev.Frame)
		}

		switch ev.Type {
		case EventOpen:
			parent := root
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, &Node{
				Frame:  f,
				Start:  ev.At,
				Depth:  len(stack),
				Parent: parent,
			})

		case EventClose:
			if len(stack) == 0 {
				return nil, &UnbalancedStackError{
					FrameName: f.Name,
					At:        ev.At,
					Reason:    "close event with no open frame",
				}
			}
			top := stack[len(stack)-1]
			if top.Frame != f {
				return nil, &UnbalancedStackError{
					FrameName: f.Name,
					At:        ev.At,
					Reason:    fmt.Sprintf("close event does not match open frame %q", top.Frame.Name),
				}
			}
			stack = stack[:len(stack)-1]

			top.End = ev.At
			if top.End < top.Start {
				return nil, xerrors.Errorf("frame %q closes at %g before it opens at %g", f.Name, top.End, top.Start)
			}
			if top.End == top.Start {
				// zero-width occurrence: contributes no weight, absent
				// from the output
				continue
			}

			finalizeEvented(top)
			top.Parent.Children = append(top.Parent.Children, top)
			if top.Parent == root {
				root.TotalWeight += top.TotalWeight
			}
			ordered = append(ordered, top)

		default:
			return nil, xerrors.Errorf("unknown event type %q", ev.Type)
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &UnbalancedStackError{
			FrameName: top.Frame.Name,
			At:        top.Start,
			Reason:    fmt.Sprintf("%d frame(s) left open at end of stream", len(stack)),
		}
	}

	spanRoot(root)

	return &Tree{Root: root, Ordered: ordered}, nil
}

func finalizeEvented(n *Node) {
	n.TotalWeight = n.End - n.Start

	var childrenTotal float64
	for _, child := range n.Children {
		childrenTotal += child.TotalWeight
	}
	n.SelfWeight = n.TotalWeight - childrenTotal

	n.Frame.TotalWeight += n.TotalWeight
	n.Frame.SelfWeight += n.SelfWeight
}

// spanRoot stretches the synthetic root over its children so tree views can
// treat it like any other node.
func spanRoot(root *Node) {
	if len(root.Children) == 0 {
		return
	}
	root.Start = root.Children[0].Start
	root.End = root.Children[len(root.Children)-1].End
	for _, child := range root.Children {
		if child.Start < root.Start {
			root.Start = child.Start
		}
		if child.End > root.End {
			root.End = child.End
		}
	}
}
