package icon

import (
	"path/filepath"
	"strings"
	"unicode"
)

// digitPrefix keeps names derived from files like "24-hours.svg" valid identifiers.
const digitPrefix = "Icon"

// ComponentName derives the PascalCase component identifier for a file name:
// the extension is dropped, the rest is split on non-alphanumeric runes, and
// each word's first letter is upper-cased. Returns "" when no word remains.
func ComponentName(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	name := b.String()
	if name == "" {
		return ""
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return digitPrefix + name
	}
	return name
}
