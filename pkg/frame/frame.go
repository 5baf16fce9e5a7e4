// Package frame keeps the canonical, deduplicated frame records a call tree
// refers to. Raw traces address frames by position; the registry maps those
// positions to shared Frame values so that every occurrence of the same
// function across samples and trees points at one record.
package frame

import (
	"strconv"
	"strings"
)

// RootFrameName is reserved for the synthetic root of every call tree; raw
// traces must not use it.
const RootFrameName = "(root)"

// Descriptor is a raw frame as it appears on the wire, before deduplication.
type Descriptor struct {
	Name          string `json:"name"`
	File          string `json:"file,omitempty"`
	Line          int    `json:"line,omitempty"`
	Col           int    `json:"col,omitempty"`
	IsApplication *bool  `json:"isApplication,omitempty"`
}

// Frame is a canonical frame record. Multiple tree nodes share one Frame;
// TotalWeight and SelfWeight accumulate across every occurrence while a tree
// is built and must not be modified afterwards.
type Frame struct {
	Key           string
	Name          string
	File          string
	Line          int
	IsApplication bool

	TotalWeight float64
	SelfWeight  float64
}

// Registry maps positional frame indexes from a raw trace to canonical
// frames. Two descriptors with the same derived key resolve to the same
// *Frame.
type Registry struct {
	byIndex []*Frame
	byKey   map[string]*Frame
}

// NewRegistry builds a registry from the trace's ordered descriptor list.
// The platform tag drives classification of descriptors that carry no
// explicit application flag.
func NewRegistry(descs []Descriptor, platform string) *Registry {
	reg := &Registry{
		byIndex: make([]*Frame, 0, len(descs)),
		byKey:   make(map[string]*Frame, len(descs)),
	}
	for _, d := range descs {
		key := deriveKey(d)
		f, ok := reg.byKey[key]
		if !ok {
			f = &Frame{
				Key:           key,
				Name:          d.Name,
				File:          d.File,
				Line:          d.Line,
				IsApplication: isApplicationFrame(d, platform),
			}
			reg.byKey[key] = f
		}
		reg.byIndex = append(reg.byIndex, f)
	}
	return reg
}

// FrameAt returns the canonical frame for a positional index, or nil when
// the index is outside the descriptor list.
func (reg *Registry) FrameAt(idx int) *Frame {
	if reg == nil || idx < 0 || idx >= len(reg.byIndex) {
		return nil
	}
	return reg.byIndex[idx]
}

// Len reports the number of positions, not the number of distinct frames.
func (reg *Registry) Len() int {
	if reg == nil {
		return 0
	}
	return len(reg.byIndex)
}

// Frames returns the distinct canonical frames in first-seen order.
func (reg *Registry) Frames() []*Frame {
	if reg == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(reg.byKey))
	frames := make([]*Frame, 0, len(reg.byKey))
	for _, f := range reg.byIndex {
		if _, ok := seen[f.Key]; ok {
			continue
		}
		seen[f.Key] = struct{}{}
		frames = append(frames, f)
	}
	return frames
}

func deriveKey(d Descriptor) string {
	key := d.Name
	if d.File != "" {
		key += ":" + d.File
	}
	if d.Line != 0 {
		key += ":" + strconv.Itoa(d.Line)
	}
	if d.Col != 0 {
		key += ":" + strconv.Itoa(d.Col)
	}
	return key
}

func isApplicationFrame(d Descriptor, platform string) bool {
	if d.IsApplication != nil {
		return *d.IsApplication
	}
	switch platform {
	case "go":
		return !strings.HasPrefix(d.Name, "runtime.") && !strings.HasPrefix(d.Name, "syscall.")
	case "node":
		return d.File != "" && !strings.Contains(d.File, "node_modules") && !strings.HasPrefix(d.Name, "(")
	default:
		// Without a platform heuristic treat frames as user code.
		return true
	}
}
