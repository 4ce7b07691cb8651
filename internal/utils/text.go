package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel folds a period label for loose comparison: accents are
// stripped, '_' and '-' become spaces, runs of whitespace collapse to one
// space and the result is lowercased and trimmed.
//
//	NormalizeLabel("Pont_Mai")   // "pont mai"
//	NormalizeLabel("Été  2024")  // "ete 2024"
func NormalizeLabel(s string) string {
	folded, _, err := transform.String(accentFolder(), s)
	if err != nil {
		folded = s
	}

	folded = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return unicode.ToLower(r)
	}, folded)

	return strings.Join(strings.Fields(folded), " ")
}

// accentFolder returns a fresh transformer; transform.Chain is not safe for
// concurrent use so one is built per call.
func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
