// Package normalize maps user-facing identifiers to the keys used for lookups:
// course ids, search needles and catalog slugs.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CourseID returns the identity key for a course id: every whitespace rune
// removed and the remainder case folded to lower.
// "CSE 12", "cse12" and "CSE12" all map to "cse12".
func CourseID(id string) string {
	if id == "" {
		return ""
	}
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, id)
	return Fold(compact)
}

// Fold lower-cases s using Unicode case rules.
// A Caser keeps state between calls, so one is created per call.
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// SearchQuery prepares a user supplied substring query for matching.
func SearchQuery(q string) string {
	return Fold(strings.TrimSpace(q))
}
