package listview

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldAccents lower-cases s and strips combining marks, so "Éléonore" folds to
// "eleonore".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ContainsAccentFold is ContainsFold with accent-insensitive matching, used by
// screens listing French names and cities.
func ContainsAccentFold[T any](fields []string, get Accessor[T]) Predicate[T] {
	return func(rec T, query string) bool {
		q := FoldAccents(query)
		for _, f := range fields {
			if strings.Contains(FoldAccents(get(rec, f)), q) {
				return true
			}
		}
		return false
	}
}
