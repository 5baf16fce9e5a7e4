package profile

import (
	"fmt"
	"strings"
)

type Unit uint8

const (
	UnknownUnit Unit = iota
	Microseconds
	Milliseconds
)

func UnitFromString(s string) Unit {
	switch strings.TrimSpace(s) {
	case "microseconds":
		return Microseconds
	case "milliseconds":
		return Milliseconds
	}
	return UnknownUnit
}

func (u Unit) String() string {
	switch u {
	case UnknownUnit:
		return "unknown"
	case Microseconds:
		return "microseconds"
	case Milliseconds:
		return "milliseconds"
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// Micros converts a value in this unit to microseconds, the smallest unit
// the formatter renders.
func (u Unit) Micros(v float64) float64 {
	if u == Milliseconds {
		return v * 1000
	}
	return v
}
