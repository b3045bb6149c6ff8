package normalize

import (
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/record"
	"github.com/okian/scout/internal/domain/types"
)

// Point is one entity placed on a two-metric chart.
type Point struct {
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	EntityID    string           `json:"entity_id"`
	EntityLabel string           `json:"entity_label"`
	SourceType  types.SourceType `json:"source_type"`
}

// Axis selects the metric plotted on one dimension. A Raw axis plots the
// value as found instead of its 0-100 score.
type Axis struct {
	Metric catalog.Definition
	Raw    bool
}

// Projection places merged records onto an X/Y plane.
type Projection struct {
	X, Y       Axis
	IDField    string
	LabelField string
	SourceType types.SourceType
}

// Point projects a single record.
func (p Projection) Point(m record.Merged) (Point, Report) {
	var rep Report
	xs := Read(m.Fields, p.X.Metric)
	ys := Read(m.Fields, p.Y.Metric)
	rep.observe(xs)
	rep.observe(ys)

	return Point{
		X:           p.X.value(xs),
		Y:           p.Y.value(ys),
		EntityID:    m.Text(p.IDField),
		EntityLabel: m.Text(p.LabelField),
		SourceType:  p.SourceType,
	}, rep
}

// Points projects records in order.
func (p Projection) Points(records []record.Merged) ([]Point, Report) {
	var rep Report
	out := make([]Point, 0, len(records))
	for _, m := range records {
		pt, r := p.Point(m)
		rep.Add(r)
		out = append(out, pt)
	}
	return out, rep
}

func (a Axis) value(s Sample) float64 {
	if a.Raw {
		return s.Raw
	}
	return s.Score
}
