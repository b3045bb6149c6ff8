package merge

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/okian/scout/internal/domain/record"
	"github.com/okian/scout/internal/domain/textfold"
)

// Matcher derives the join key of a record on each side of a merge. A false
// second result means the record cannot take part in a match: it is still
// emitted when primary, and never indexed when secondary.
type Matcher interface {
	PrimaryKey(r record.Raw) (string, bool)
	SecondaryKey(r record.Raw) (string, bool)
}

// FieldMatcher joins on the trimmed string form of a field. It is the exact,
// non-fuzzy default.
type FieldMatcher struct {
	Field string
	// SecondaryField names the field on the secondary side when it differs.
	SecondaryField string
}

// OnField returns a FieldMatcher joining on the same field name on both
// sides.
func OnField(field string) FieldMatcher { return FieldMatcher{Field: field} }

func (m FieldMatcher) PrimaryKey(r record.Raw) (string, bool) {
	return textKey(r, m.Field)
}

func (m FieldMatcher) SecondaryKey(r record.Raw) (string, bool) {
	return textKey(r, secondaryField(m.Field, m.SecondaryField))
}

// IDMatcher joins on an integral numeric id, so "7", 7 and 7.0 all match.
type IDMatcher struct {
	Field          string
	SecondaryField string
}

func (m IDMatcher) PrimaryKey(r record.Raw) (string, bool) {
	return idKey(r, m.Field)
}

func (m IDMatcher) SecondaryKey(r record.Raw) (string, bool) {
	return idKey(r, secondaryField(m.Field, m.SecondaryField))
}

// NameMatcher joins on a display name folded for case, diacritics and
// spacing. Use it only when neither side carries a shared identifier.
type NameMatcher struct {
	Field          string
	SecondaryField string
}

func (m NameMatcher) PrimaryKey(r record.Raw) (string, bool) {
	return nameKey(r, m.Field)
}

func (m NameMatcher) SecondaryKey(r record.Raw) (string, bool) {
	return nameKey(r, secondaryField(m.Field, m.SecondaryField))
}

func secondaryField(primary, secondary string) string {
	if secondary != "" {
		return secondary
	}
	return primary
}

func textKey(r record.Raw, field string) (string, bool) {
	s, ok := r.Text(field)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func idKey(r record.Raw, field string) (string, bool) {
	if n, ok := r[field].(json.Number); ok {
		if s, ok := record.IntegerLiteral(n); ok {
			return s, true
		}
	}
	f, ok := r.Number(field)
	if !ok || math.IsInf(f, 0) || f != math.Trunc(f) {
		return "", false
	}
	return strconv.FormatInt(int64(f), 10), true
}

func nameKey(r record.Raw, field string) (string, bool) {
	s, ok := r.Text(field)
	if !ok {
		return "", false
	}
	folded := textfold.Fold(s)
	if folded == "" {
		return "", false
	}
	return folded, true
}
