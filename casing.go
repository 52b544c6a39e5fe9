package anglify

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PreserveCase re-cases a canonical replacement so it follows the
// capitalisation pattern of the text it replaces:
//
//   - all upper-case original (with at least one letter): "MR" → "MR"
//   - leading capital: "Color" → "Colour"
//   - anything else: the replacement is returned unchanged
//
// An empty original or replacement returns replacement as-is.
func PreserveCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}

	if isAllUpper(original) {
		// Casers carry state and are not safe for concurrent use.
		return cases.Upper(language.English).String(replacement)
	}

	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		return upperFirst(replacement)
	}

	return replacement
}

// isAllUpper reports whether s has at least one letter and no lower-case ones.
func isAllUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters > 0
}

// upperFirst upper-cases only the first rune of s.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
