package normalize

import (
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/record"
)

// ProfileAxis is one spoke of a radar chart.
type ProfileAxis struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Raw   float64 `json:"raw"`
	Value float64 `json:"value"`
}

// Profile is a radar chart for a single entity.
type Profile struct {
	EntityID    string        `json:"entity_id"`
	EntityLabel string        `json:"entity_label"`
	Axes        []ProfileAxis `json:"axes"`
}

// BuildProfile normalizes every metric in defs for one record. Axes keep the
// order of defs.
func BuildProfile(m record.Merged, idField, labelField string, defs []catalog.Definition) (Profile, Report) {
	var rep Report
	p := Profile{
		EntityID:    m.Text(idField),
		EntityLabel: m.Text(labelField),
		Axes:        make([]ProfileAxis, 0, len(defs)),
	}
	for _, d := range defs {
		s := Read(m.Fields, d)
		rep.observe(s)
		p.Axes = append(p.Axes, ProfileAxis{Key: d.Key, Label: d.Label, Raw: s.Raw, Value: s.Score})
	}
	return p, rep
}
