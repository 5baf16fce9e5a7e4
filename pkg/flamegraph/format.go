package flamegraph

import (
	"fmt"

	"github.com/flamescale/flamescale/pkg/profile"
)

// DurationFormatter renders a duration given in the profile's native unit as
// a display string.
type DurationFormatter func(v float64) string

// NewDurationFormatter returns a formatter for the given unit. It picks the
// largest of microseconds, milliseconds and seconds whose converted
// magnitude is at least 1 and renders with two fractional digits, e.g.
// "1.00s", "500.00ms", "42.00µs".
func NewDurationFormatter(unit profile.Unit) DurationFormatter {
	return func(v float64) string {
		micros := unit.Micros(v)
		switch {
		case micros >= 1e6:
			return fmt.Sprintf("%.2fs", micros/1e6)
		case micros >= 1e3:
			return fmt.Sprintf("%.2fms", micros/1e3)
		default:
			return fmt.Sprintf("%.2fµs", micros)
		}
	}
}
