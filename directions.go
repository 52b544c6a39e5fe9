package anglify

import (
	"strings"

	"golang.org/x/text/language"
)

// Direction selects which regional convention text is converted into.
type Direction string

const (
	// AmericanToBritish rewrites American English into British English.
	AmericanToBritish Direction = "american-to-british"
	// BritishToAmerican rewrites British English into American English.
	BritishToAmerican Direction = "british-to-american"
)

// Locale codes for the two supported variants.
const (
	LocaleAmerican = "en_US"
	LocaleBritish  = "en_GB"
)

// LocaleNames maps locale codes to human-readable names.
var LocaleNames = map[string]string{
	LocaleAmerican: "English (United States)",
	LocaleBritish:  "English (United Kingdom)",
}

// localeAliases maps loose spellings of a target variant to its locale code.
var localeAliases = map[string]string{
	"en_us":    LocaleAmerican,
	"us":       LocaleAmerican,
	"american": LocaleAmerican,
	"en_gb":    LocaleBritish,
	"gb":       LocaleBritish,
	"uk":       LocaleBritish,
	"british":  LocaleBritish,
}

// ParseDirection validates a direction string. Only the two canonical values
// are accepted.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case AmericanToBritish, BritishToAmerican:
		return d, true
	}
	return "", false
}

// DirectionForTarget returns the direction that produces the given target
// locale ("en_GB", "en-GB", "uk", "british", ...).
func DirectionForTarget(locale string) (Direction, bool) {
	code, ok := localeAliases[strings.ToLower(NormalizeLocale(locale))]
	if !ok {
		return "", false
	}
	if code == LocaleBritish {
		return AmericanToBritish, true
	}
	return BritishToAmerican, true
}

// Valid reports whether d is one of the two supported directions.
func (d Direction) Valid() bool {
	_, ok := ParseDirection(string(d))
	return ok
}

// Reverse returns the opposite direction. Unknown directions are returned as-is.
func (d Direction) Reverse() Direction {
	switch d {
	case AmericanToBritish:
		return BritishToAmerican
	case BritishToAmerican:
		return AmericanToBritish
	}
	return d
}

// SourceLocale returns the locale code of the input variant.
func (d Direction) SourceLocale() string {
	return d.Reverse().TargetLocale()
}

// TargetLocale returns the locale code of the output variant, or "" for an
// unknown direction.
func (d Direction) TargetLocale() string {
	switch d {
	case AmericanToBritish:
		return LocaleBritish
	case BritishToAmerican:
		return LocaleAmerican
	}
	return ""
}

// Tag returns the language tag of the output variant.
func (d Direction) Tag() language.Tag {
	switch d {
	case AmericanToBritish:
		return language.BritishEnglish
	case BritishToAmerican:
		return language.AmericanEnglish
	}
	return language.English
}

// GetLocaleName returns the human-readable name for a locale code.
// Falls back to the code itself if not found.
func GetLocaleName(code string) string {
	if name, ok := LocaleNames[NormalizeLocale(code)]; ok {
		return name
	}
	return code
}

// NormalizeLocale converts a locale code to the standard format (e.g., "en-GB" → "en_GB").
func NormalizeLocale(code string) string {
	return strings.ReplaceAll(code, "-", "_")
}

var englishBase, _ = language.English.Base()

// IsEnglish reports whether a BCP 47 tag such as an HTML lang value names
// English. Empty and unparseable values count as English, so only text
// explicitly marked as another language is left alone.
func IsEnglish(lang string) bool {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return true
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return true
	}
	base, _ := tag.Base()
	return base == englishBase
}
