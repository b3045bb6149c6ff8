// Package normalize rescales raw statistics onto the common 0-100 axis used by
// scatter and radar charts.
package normalize

import (
	"math"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/record"
)

// Axis bounds of every normalized value.
const (
	Min = 0.0
	Max = 100.0
)

// Normalize maps raw onto [0,100] using the calibrated bounds of def.
//
// Values outside the domain are clamped first, so 2x the domain maximum and
// the maximum itself both score 100. NaN is treated as 0. Percentage metrics
// are already on the output scale and skip the domain bounds.
func Normalize(raw float64, def catalog.Definition) float64 {
	v, _ := normalize(raw, def)
	return v
}

// normalize also reports whether raw fell outside the bounds it was held to.
func normalize(raw float64, def catalog.Definition) (float64, bool) {
	if math.IsNaN(raw) {
		raw = 0
	}

	var scaled float64
	var clamped bool
	if def.IsPercentage {
		scaled, clamped = clamp(raw, Min, Max)
	} else {
		var c float64
		c, clamped = clamp(raw, def.DomainMin, def.DomainMax)
		scaled = (c - def.DomainMin) / (def.DomainMax - def.DomainMin) * Max
	}

	if def.Invert {
		scaled = Max - scaled
	}
	// guard against rounding drift at the edges
	scaled, _ = clamp(scaled, Min, Max)
	return scaled, clamped
}

func clamp(v, lo, hi float64) (float64, bool) {
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	}
	return v, false
}

// Sample is one metric read from a record.
type Sample struct {
	Key string `json:"key"`
	// Raw is the value as found, 0 when absent or unusable.
	Raw float64 `json:"raw"`
	// Score is Raw on the 0-100 axis.
	Score float64 `json:"score"`
	// Present is false when no field for the metric exists on the record.
	Present bool `json:"present"`
	// NonNumeric is set when a field existed but held no usable number.
	NonNumeric bool `json:"non_numeric,omitempty"`
	Clamped    bool `json:"clamped,omitempty"`
}

// Read looks up def's key, then its aliases, in r and normalizes the first
// field found.
func Read(r record.Raw, def catalog.Definition) Sample {
	s := Sample{Key: def.Key}
	for _, f := range def.Fields() {
		v, exists := r[f]
		if !exists {
			continue
		}
		s.Present = true
		if v != nil {
			n, ok := r.Number(f)
			s.NonNumeric = !ok
			s.Raw = n
		}
		break
	}
	s.Score, s.Clamped = normalize(s.Raw, def)
	return s
}

// Field returns the normalized value of def's metric on r. Missing and
// non-numeric fields normalize as 0.
func Field(r record.Raw, def catalog.Definition) float64 {
	return Read(r, def).Score
}

// Report counts the recoveries made while normalizing a batch.
type Report struct {
	Clamped    int `json:"clamped"`
	NonNumeric int `json:"non_numeric"`
	Absent     int `json:"absent"`
}

func (r *Report) observe(s Sample) {
	if s.Clamped {
		r.Clamped++
	}
	if s.NonNumeric {
		r.NonNumeric++
	}
	if !s.Present {
		r.Absent++
	}
}

// Add folds o into r.
func (r *Report) Add(o Report) {
	r.Clamped += o.Clamped
	r.NonNumeric += o.NonNumeric
	r.Absent += o.Absent
}
