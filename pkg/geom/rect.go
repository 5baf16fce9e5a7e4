package geom

import "fmt"

// Rect is an axis-aligned rectangle in an abstract coordinate space.
// It is a plain value type: compare with ==.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) IsEmpty() bool {
	return r.W == 0 || r.H == 0
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g, %g, %g, %g)", r.X, r.Y, r.W, r.H)
}
