// Package quadrant splits a two-metric scatter plot into four zones using
// per-pair calibrated thresholds.
package quadrant

import "fmt"

// Quadrant is one of the four zones of a scatter plot.
type Quadrant int

const (
	HighXHighY Quadrant = iota
	HighXLowY
	LowXHighY
	LowXLowY
)

// All lists the quadrants in caption order: top-right, bottom-right,
// top-left, bottom-left.
func All() []Quadrant { return []Quadrant{HighXHighY, HighXLowY, LowXHighY, LowXLowY} }

func (q Quadrant) String() string {
	switch q {
	case HighXHighY:
		return "high_x_high_y"
	case HighXLowY:
		return "high_x_low_y"
	case LowXHighY:
		return "low_x_high_y"
	case LowXLowY:
		return "low_x_low_y"
	}
	return fmt.Sprintf("quadrant(%d)", int(q))
}

// MarshalText implements encoding.TextMarshaler.
func (q Quadrant) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quadrant) UnmarshalText(b []byte) error {
	for _, c := range All() {
		if c.String() == string(b) {
			*q = c
			return nil
		}
	}
	return fmt.Errorf("%w: quadrant %q", ErrInvalidPair, b)
}

// Classify places (x, y) against the thresholds. A value equal to its
// threshold counts as high. Axes where a lower value is better are not
// inverted here; use Pair.Classify for those.
func Classify(x, y, xThreshold, yThreshold float64) Quadrant {
	highX := x >= xThreshold
	highY := y >= yThreshold
	switch {
	case highX && highY:
		return HighXHighY
	case highX:
		return HighXLowY
	case highY:
		return LowXHighY
	}
	return LowXLowY
}
