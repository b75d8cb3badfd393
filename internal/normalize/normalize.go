// Package normalize folds player names and team aliases into a comparable form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinFold maps letters that have no canonical decomposition onto their base latin form.
// The uppercase I variants are all folded to a plain i so that Turkish names compare equal
// to their ascii spelling regardless of locale.
var latinFold = map[rune]string{ //nolint:gochecknoglobals
	'İ': "i",
	'I': "i",
	'ı': "i",
	'Ø': "o",
	'ø': "o",
	'Ł': "l",
	'ł': "l",
	'Đ': "d",
	'đ': "d",
	'Ð': "d",
	'ð': "d",
	'Ħ': "h",
	'ħ': "h",
	'ß': "ss",
	'ẞ': "ss",
	'Æ': "ae",
	'æ': "ae",
	'Œ': "oe",
	'œ': "oe",
	'Þ': "th",
	'þ': "th",
}

// Fold returns the canonical lowercase form of value. Combining marks are stripped first, then locale
// specific letter variants are mapped to their base latin equivalent. Fold is idempotent.
func Fold(value string) string {
	if value == "" {
		return ""
	}

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, errTransform := transform.String(stripper, value)
	if errTransform != nil {
		// Only reachable with invalid utf8 input, fall back to the un-stripped value.
		stripped = value
	}

	var builder strings.Builder
	builder.Grow(len(stripped))
	for _, char := range strings.ToLower(stripped) {
		if replacement, found := latinFold[char]; found {
			builder.WriteString(replacement)

			continue
		}

		builder.WriteRune(char)
	}

	return builder.String()
}

// Contains reports whether the folded form of value contains the folded form of substr.
func Contains(value string, substr string) bool {
	return strings.Contains(Fold(value), Fold(substr))
}
