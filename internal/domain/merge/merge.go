// Package merge reconciles per-entity records that live in different source
// tables and share no primary key.
package merge

import (
	"github.com/okian/scout/internal/domain/record"
)

// Default source names used by Merge and MergeOn.
const (
	PrimarySource   = "primary"
	SecondarySource = "secondary"
)

// Source is a named record set.
type Source struct {
	Name    string
	Records []record.Raw
}

// Stats summarises how a merge went.
type Stats struct {
	Primary int `json:"primary"`
	// Matched and Unmatched count primary records per secondary source.
	Matched   map[string]int `json:"matched"`
	Unmatched map[string]int `json:"unmatched"`
	// DuplicateKeys counts secondary records ignored because an earlier
	// record already claimed their key.
	DuplicateKeys map[string]int `json:"duplicate_keys"`
}

// Merge joins primary with secondary using m. The result has exactly one
// record per primary record, in primary order.
func Merge(primary, secondary []record.Raw, m Matcher) []record.Merged {
	out, _ := MergeAll(Source{Name: PrimarySource, Records: primary}, m, Source{Name: SecondarySource, Records: secondary})
	return out
}

// MergeOn joins on the trimmed string value of matchKey on both sides.
func MergeOn(primary, secondary []record.Raw, matchKey string) []record.Merged {
	return Merge(primary, secondary, OnField(matchKey))
}

// MergeAll folds every secondary source into the primary records.
//
// Rules: the first secondary record with a given key wins and later
// duplicates are ignored; fields already present (from the primary or an
// earlier source) are never overwritten; a primary record without a
// counterpart gets that source's fields set to 0 or "" and the source listed
// in Missing. Matched or not, every record ends up with each column the
// source carries anywhere.
func MergeAll(primary Source, m Matcher, secondaries ...Source) ([]record.Merged, Stats) {
	stats := Stats{
		Primary:       len(primary.Records),
		Matched:       make(map[string]int, len(secondaries)),
		Unmatched:     make(map[string]int, len(secondaries)),
		DuplicateKeys: make(map[string]int, len(secondaries)),
	}

	out := make([]record.Merged, len(primary.Records))
	for i, r := range primary.Records {
		fields := r.Clone()
		if fields == nil {
			fields = record.Raw{}
		}
		out[i] = record.Merged{Fields: fields, Sources: []string{primary.Name}}
	}

	for _, sec := range secondaries {
		idx, dups := index(sec.Records, m)
		stats.DuplicateKeys[sec.Name] = dups
		sch := schemaOf(sec.Records)

		for i, r := range primary.Records {
			var match record.Raw
			if key, ok := m.PrimaryKey(r); ok {
				match = idx[key]
			}
			if match == nil {
				sch.fillDefaults(out[i].Fields)
				out[i].Missing = append(out[i].Missing, sec.Name)
				stats.Unmatched[sec.Name]++
				continue
			}
			for k, v := range match {
				if _, exists := out[i].Fields[k]; exists {
					continue
				}
				if v == nil {
					v = sch.zero(k)
				}
				out[i].Fields[k] = v
			}
			sch.fillDefaults(out[i].Fields)
			out[i].Sources = append(out[i].Sources, sec.Name)
			stats.Matched[sec.Name]++
		}
	}
	return out, stats
}

// index maps each join key to the first secondary record carrying it.
func index(records []record.Raw, m Matcher) (map[string]record.Raw, int) {
	idx := make(map[string]record.Raw, len(records))
	dups := 0
	for _, r := range records {
		key, ok := m.SecondaryKey(r)
		if !ok {
			continue
		}
		if _, seen := idx[key]; seen {
			dups++
			continue
		}
		idx[key] = r
	}
	return idx, dups
}

// schema records the field names of a source and whether each carries text.
type schema struct {
	order  []string
	isText map[string]bool
}

func schemaOf(records []record.Raw) schema {
	s := schema{isText: make(map[string]bool)}
	known := make(map[string]bool)
	for _, r := range records {
		for k, v := range r {
			if !known[k] {
				known[k] = true
				s.order = append(s.order, k)
			}
			if v == nil {
				continue
			}
			if _, decided := s.isText[k]; decided {
				continue
			}
			_, str := v.(string)
			s.isText[k] = str
		}
	}
	return s
}

func (s schema) zero(field string) any {
	if s.isText[field] {
		return ""
	}
	return float64(0)
}

func (s schema) fillDefaults(fields record.Raw) {
	for _, k := range s.order {
		if _, exists := fields[k]; exists {
			continue
		}
		fields[k] = s.zero(k)
	}
}
