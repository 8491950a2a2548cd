package util

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and joins its words with hyphens, "South Western Railway" becomes "south-western-railway"
func Slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	return strings.Join(words, "-")
}
