package license

import (
	"strings"

	"github.com/google/uuid"
)

const keyGroupSize = 4

// NormalizeKey cleans up user entered keys. Surrounding whitespace is removed and letters are upper-cased.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// FormatKey splits the key into dash separated groups of four characters. Existing dashes are ignored.
func FormatKey(key string) string {
	raw := strings.ReplaceAll(NormalizeKey(key), "-", "")

	var builder strings.Builder
	for idx, char := range []rune(raw) {
		if idx > 0 && idx%keyGroupSize == 0 {
			builder.WriteByte('-')
		}

		builder.WriteRune(char)
	}

	return builder.String()
}

// GenerateKey returns a new random key made of four groups of four characters.
func GenerateKey() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")

	return FormatKey(raw[:keyGroupSize*4])
}
