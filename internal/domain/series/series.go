// Package series turns merged records into plotting-ready series.
package series

import (
	"cmp"
	"sort"
	"strings"

	"github.com/okian/scout/internal/domain/record"
	"github.com/okian/scout/internal/domain/types"
)

// Keys of the series that do not come from a GroupBy value.
const (
	HighlightKey = "highlight"
	GeneralKey   = "all"
)

// DefaultIDField is used when Options.IDField is empty.
const DefaultIDField = "id"

// MinFilter drops records whose Field is below Min. Absent fields count as 0.
type MinFilter struct {
	Field string  `json:"field"`
	Min   float64 `json:"min"`
}

// Options control Build. The zero value returns one general series in input
// order.
type Options struct {
	HighlightEntityID string          `json:"highlight_entity_id,omitempty"`
	IDField           string          `json:"id_field,omitempty"`
	GroupBy           string          `json:"group_by,omitempty"`
	SortBy            string          `json:"sort_by,omitempty"`
	SortOrder         types.SortOrder `json:"sort_order,omitempty"`
	MinFilter         *MinFilter      `json:"min_filter,omitempty"`
}

// Series is a named set of records plotted together.
type Series struct {
	Key       string          `json:"key"`
	Highlight bool            `json:"highlight,omitempty"`
	Records   []record.Merged `json:"records"`
}

// Build filters, sorts, highlights and groups records, in that order.
//
// The highlighted entity, when present after filtering, is moved into its
// own series placed first. Every remaining record lands in exactly one
// other series, so the total count equals the filtered input. Empty series
// are never returned. records is not modified.
func Build(records []record.Merged, opts Options) []Series {
	rows := Filter(records, opts.MinFilter)
	Sort(rows, opts.SortBy, opts.SortOrder)

	out := make([]Series, 0, 2)
	rows, hl, ok := extract(rows, opts.idField(), opts.HighlightEntityID)
	if ok {
		out = append(out, Series{Key: HighlightKey, Highlight: true, Records: []record.Merged{hl}})
	}
	return append(out, group(rows, opts.GroupBy)...)
}

// Count returns the number of records across all series.
func Count(series []Series) int {
	n := 0
	for _, s := range series {
		n += len(s.Records)
	}
	return n
}

// Filter returns the records whose f.Field is at least f.Min. A nil filter
// keeps everything. The result never aliases records.
func Filter(records []record.Merged, f *MinFilter) []record.Merged {
	out := make([]record.Merged, 0, len(records))
	for _, r := range records {
		if f != nil && f.Field != "" && r.Number(f.Field) < f.Min {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sort orders records in place by field. Ties keep their relative order. An
// empty field leaves records untouched. Numeric values compare as numbers;
// anything else compares as text. Numbers sort before text in either order.
func Sort(records []record.Merged, field string, order types.SortOrder) {
	if field == "" {
		return
	}
	desc := order == types.Descending
	sort.SliceStable(records, func(i, j int) bool {
		an, aok := records[i].Fields.Number(field)
		bn, bok := records[j].Fields.Number(field)
		if aok != bok {
			return aok
		}
		var c int
		if aok {
			c = cmp.Compare(an, bn)
		} else {
			c = strings.Compare(records[i].Text(field), records[j].Text(field))
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func (o Options) idField() string {
	if o.IDField == "" {
		return DefaultIDField
	}
	return o.IDField
}

// extract removes the first record whose id equals id.
func extract(records []record.Merged, field, id string) ([]record.Merged, record.Merged, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return records, record.Merged{}, false
	}
	for i, r := range records {
		if r.Text(field) != id {
			continue
		}
		rest := make([]record.Merged, 0, len(records)-1)
		rest = append(rest, records[:i]...)
		rest = append(rest, records[i+1:]...)
		return rest, r, true
	}
	return records, record.Merged{}, false
}

func group(records []record.Merged, by string) []Series {
	if len(records) == 0 {
		return nil
	}
	if by == "" {
		return []Series{{Key: GeneralKey, Records: records}}
	}
	var out []Series
	pos := make(map[string]int)
	for _, r := range records {
		k := r.Text(by)
		i, seen := pos[k]
		if !seen {
			i = len(out)
			pos[k] = i
			out = append(out, Series{Key: k})
		}
		out[i].Records = append(out[i].Records, r)
	}
	return out
}
