package service

import (
	"errors"

	"github.com/okian/scout/internal/adapters/fetch"
	"github.com/okian/scout/internal/domain/merge"
	"github.com/okian/scout/internal/domain/record"
)

// Sources is the record input of one view: a primary category, any number
// of secondary categories and the categories that could not be loaded.
type Sources struct {
	Primary     merge.Source
	Secondaries []merge.Source
	Unavailable []string
}

// CategoryEnvelope is an upstream envelope tagged with its category.
type CategoryEnvelope struct {
	Category string          `json:"category"`
	Envelope record.Envelope `json:"envelope"`
}

// SourcesFromEnvelopes turns envelopes into Sources. The first envelope is
// the primary. success:false envelopes contribute no records and are listed
// as unavailable.
func SourcesFromEnvelopes(envs []CategoryEnvelope) (Sources, error) {
	if len(envs) == 0 {
		return Sources{}, errors.Join(ErrInvalidRequest, errors.New("at least one envelope is required"))
	}
	src := Sources{Unavailable: []string{}}
	for i, e := range envs {
		rows, err := e.Envelope.Records()
		if err != nil {
			src.Unavailable = append(src.Unavailable, e.Category)
		}
		s := merge.Source{Name: e.Category, Records: rows}
		if i == 0 {
			src.Primary = s
			continue
		}
		src.Secondaries = append(src.Secondaries, s)
	}
	return src, nil
}

// sourcesFromResult arranges a fetch result in category order.
func sourcesFromResult(categories []string, res fetch.Result) Sources {
	src := Sources{Unavailable: append([]string{}, res.Unavailable...)}
	for i, c := range categories {
		s := merge.Source{Name: c, Records: res.Get(c)}
		if i == 0 {
			src.Primary = s
			continue
		}
		src.Secondaries = append(src.Secondaries, s)
	}
	return src
}
