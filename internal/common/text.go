package common

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips markup from user-entered plain text and trims it. The
// policy escapes entities, so the result is unescaped again to keep values
// like "R&D" intact.
func Sanitize(value string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(value)))
}

// FoldKey returns the comparison key for case-insensitive matching of
// skills, positions and facet values. Compatibility forms such as
// full-width letters fold onto their plain spelling.
func FoldKey(value string) string {
	trimmed := strings.TrimSpace(norm.NFKC.String(value))
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(trimmed)
}

// NormalizeSet sanitizes values and drops blanks and case-insensitive
// duplicates, keeping the first spelling seen.
func NormalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		clean := Sanitize(value)
		key := FoldKey(clean)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, clean)
	}
	return out
}
