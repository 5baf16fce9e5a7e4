// Package trace defines the raw JSON trace format accepted on the wire and
// its validation rules. Parsing stops at structural checks; turning a trace
// into a call tree is pkg/profile's job.
package trace

import (
	"encoding/json"
	"io"

	"github.com/flamescale/flamescale/pkg/frame"
	"golang.org/x/xerrors"
)

// hard cap on uploaded trace files
const MaxFileSize = 64 << 20 // 64 MiB

const (
	UnitMicroseconds = "microseconds"
	UnitMilliseconds = "milliseconds"
)

// File is an uploaded trace file: a shared frame table plus one or more
// traces referencing it by position.
type File struct {
	Name     string             `json:"name,omitempty"`
	Platform string             `json:"platform,omitempty"`
	Frames   []frame.Descriptor `json:"frames"`
	Traces   []Trace            `json:"traces"`
}

// Trace is a single thread's worth of profiling data in one of two
// encodings: a chronological open/close event stream, or weighted stack
// samples. Exactly one encoding must be present.
type Trace struct {
	Name       string  `json:"name,omitempty"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Unit       string  `json:"unit"`
	ThreadID   int64   `json:"threadID"`

	Events []Event `json:"events,omitempty"`

	Weights []float64 `json:"weights,omitempty"`
	Samples [][]int   `json:"samples,omitempty"`
}

// Event is an open ("O") or close ("C") of a frame at a timestamp.
type Event struct {
	Type  string  `json:"type"`
	At    float64 `json:"at"`
	Frame int     `json:"frame"`
}

// IsEvented reports whether the trace uses the event-stream encoding.
func (tr *Trace) IsEvented() bool {
	return len(tr.Events) > 0 || len(tr.Samples) == 0 && len(tr.Weights) == 0
}

// Parse reads and validates a trace file. The reader is capped at
// MaxFileSize; anything beyond that fails as a malformed file.
func Parse(r io.Reader) (*File, error) {
	var tf File
	dec := json.NewDecoder(io.LimitReader(r, MaxFileSize))
	if err := dec.Decode(&tf); err != nil {
		return nil, xerrors.Errorf("could not decode trace file: %w", err)
	}
	if err := tf.Validate(); err != nil {
		return nil, err
	}
	return &tf, nil
}

// Validate checks structural rules: known units, exactly one encoding per
// trace, aligned samples/weights, frame indexes inside the frame table, and
// no use of the reserved root frame name.
func (tf *File) Validate() error {
	if len(tf.Traces) == 0 {
		return xerrors.New("trace file has no traces")
	}
	for i, d := range tf.Frames {
		if d.Name == frame.RootFrameName {
			return xerrors.Errorf("frame %d uses reserved name %q", i, frame.RootFrameName)
		}
	}
	for i := range tf.Traces {
		if err := tf.validateTrace(&tf.Traces[i]); err != nil {
			return xerrors.Errorf("trace %d: %w", i, err)
		}
	}
	return nil
}

func (tf *File) validateTrace(tr *Trace) error {
	switch tr.Unit {
	case UnitMicroseconds, UnitMilliseconds:
	default:
		return xerrors.Errorf("unknown unit %q", tr.Unit)
	}
	if tr.EndValue < tr.StartValue {
		return xerrors.Errorf("endValue %g before startValue %g", tr.EndValue, tr.StartValue)
	}

	evented := len(tr.Events) > 0
	sampled := len(tr.Samples) > 0 || len(tr.Weights) > 0
	if evented && sampled {
		return xerrors.New("trace mixes events with samples")
	}

	if evented {
		for i, ev := range tr.Events {
			if ev.Type != "O" && ev.Type != "C" {
				return xerrors.Errorf("event %d has unknown type %q", i, ev.Type)
			}
			if ev.Frame < 0 || ev.Frame >= len(tf.Frames) {
				return xerrors.Errorf("event %d references unknown frame %d", i, ev.Frame)
			}
		}
		return nil
	}

	if len(tr.Samples) != len(tr.Weights) {
		return xerrors.Errorf("%d samples but %d weights", len(tr.Samples), len(tr.Weights))
	}
	for i, sample := range tr.Samples {
		for _, idx := range sample {
			if idx < 0 || idx >= len(tf.Frames) {
				return xerrors.Errorf("sample %d references unknown frame %d", i, idx)
			}
		}
	}
	return nil
}
