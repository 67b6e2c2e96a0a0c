package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text after NFC composition so that precomposed and
// decomposed forms of the same title compare equal.
func Normalize(str string) string {
	// a Caser is stateful, build one per call
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(str)))
}

// ParseKeywords splits a comma separated list, normalizes every entry and
// drops empty ones. An empty input yields no keywords.
func ParseKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return NormalizeKeywords(strings.Split(raw, ","))
}

func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = Normalize(k)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Matches reports whether the position contains at least one keyword.
// Keywords are expected to be normalized already.
func Matches(position string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	text := Normalize(position)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
