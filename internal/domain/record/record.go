// Package record holds the raw and merged per-entity record shapes that flow
// through the engine.
package record

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Raw is one entity's fields from a single source dataset.
type Raw map[string]any

// Number returns the numeric value of field. The second result is false when
// the field is absent, null, non-numeric or NaN; the value is then 0.
func (r Raw) Number(field string) (float64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// Text returns the field rendered as a trimmed string. Absent and null
// fields yield "" and false.
func (r Raw) Text(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	return strings.TrimSpace(stringify(v)), true
}

// Clone returns a shallow copy of r.
func (r Raw) Clone() Raw {
	out := make(Raw, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merged is the reconciled view of one entity across several sources.
type Merged struct {
	// Fields carries the union of all source fields. Fields that belong to
	// an absent source are present with a zero value.
	Fields Raw `json:"fields"`
	// Sources lists the sources that contributed a record, primary first.
	Sources []string `json:"sources"`
	// Missing lists the secondary sources that had no counterpart.
	Missing []string `json:"missing,omitempty"`
}

// Number returns the numeric value of field, or 0 when absent or
// non-numeric.
func (m Merged) Number(field string) float64 {
	v, _ := m.Fields.Number(field)
	return v
}

// Text returns the trimmed string value of field.
func (m Merged) Text(field string) string {
	s, _ := m.Fields.Text(field)
	return s
}

// Complete reports whether every secondary source matched.
func (m Merged) Complete() bool { return len(m.Missing) == 0 }

// HasSource reports whether source contributed to m.
func (m Merged) HasSource(source string) bool {
	for _, s := range m.Sources {
		if s == source {
			return true
		}
	}
	return false
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, ok := parseNumeric(x)
		if !ok {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseNumeric accepts "12.5", "12,5" and "45%" as produced by the upstream
// CSV exports.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "%"), "%")
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// stringify renders v the way the dashboard did before comparing keys:
// integral numbers lose their trailing ".0".
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		if s, ok := IntegerLiteral(x); ok {
			return s
		}
		if f, err := x.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// IntegerLiteral returns the text of n when it is written without a fraction
// or exponent. Such values keep every digit, even past float64 precision.
func IntegerLiteral(n json.Number) (string, bool) {
	s := n.String()
	if s == "" || strings.ContainsAny(s, ".eE") {
		return "", false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		if _, ok := new(big.Int).SetString(s, 10); !ok {
			return "", false
		}
	}
	return s, true
}
