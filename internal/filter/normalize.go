package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeText lower-cases and strips diacritics so "Bengalûru" matches "bengaluru".
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	return strings.ToLower(strings.TrimSpace(result))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(normalizeText(haystack), normalizeText(needle))
}

// tokenize splits normalized text into lower-case word tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(normalizeText(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "of": {}, "in": {}, "for": {},
	"to": {}, "with": {}, "on": {}, "at": {}, "or": {}, "is": {}, "are": {},
}
