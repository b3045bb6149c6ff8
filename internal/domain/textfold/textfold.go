// Package textfold reduces names and keys to a comparable form: case folded,
// diacritics removed, whitespace collapsed.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dotless ı has no decomposition, so it survives mark stripping.
var turkishMap = runes.Map(func(r rune) rune {
	if r == 'ı' {
		return 'i'
	}
	return r
})

// Fold returns s case folded with diacritics stripped and inner whitespace
// collapsed to single spaces. "Sürdürülebilirlik" and "SURDURULEBILIRLIK"
// fold to the same value.
func Fold(s string) string {
	// cases.Caser is stateful; a fresh one per call keeps Fold goroutine-safe.
	folded := cases.Fold().String(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), turkishMap, norm.NFC)
	out, _, err := transform.String(t, folded)
	if err != nil {
		out = folded
	}
	return strings.Join(strings.Fields(out), " ")
}

// Key folds s and replaces spaces and dashes with underscores, producing a
// metric-key shaped identifier.
func Key(s string) string {
	f := Fold(s)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, f)
}
