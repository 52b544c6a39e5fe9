package anglify

import (
	"sort"
	"unicode/utf8"
)

// RewriteTerms replaces vocabulary and spelling entries of terms in text.
//
// Longer keys are applied first so a phrase ("rubbish bin") is replaced whole
// before any shorter key inside it ("bin") can match. Every key matches as a
// whole word, case-insensitively, and never inside an earlier replacement.
// Spans are reported as CategoryVocabulary; the Translator labels spelling
// entries separately.
func RewriteTerms(text string, terms Dictionary) (string, []MatchSpan) {
	doc := newDocument(text)
	doc.rewriteTerms(compileTerms(terms, nil))
	return doc.text, doc.spans
}

func (d *document) rewriteTerms(rules []rule) {
	for i := range rules {
		d.apply(&rules[i], wordBoundary)
	}
}

// compileTerms builds term rules, longest key first with ties broken
// alphabetically. Keys found in spelling are labelled CategorySpelling.
func compileTerms(terms Dictionary, spelling map[string]bool) []rule {
	keys := terms.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		return utf8.RuneCountInString(keys[i]) > utf8.RuneCountInString(keys[j])
	})

	rules := make([]rule, 0, len(keys))
	for _, k := range keys {
		category := CategoryVocabulary
		if spelling[k] {
			category = CategorySpelling
		}
		rules = append(rules, newRule(k, terms[k], category))
	}
	return rules
}
