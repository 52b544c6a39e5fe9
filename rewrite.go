package anglify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// document is text being rewritten together with the spans already claimed
// by earlier replacements. Spans are kept sorted and never overlap, so a
// later rule can never re-match text an earlier one produced.
type document struct {
	text  string
	spans []MatchSpan
}

// rule is one precompiled dictionary entry.
type rule struct {
	key      string // lower-case dictionary key
	value    string // canonical replacement
	category Category
	pattern  *regexp.Regexp
	dotted   bool // title written with a trailing period ("mr.")
}

// edit is a pending replacement, in the current text's offsets.
type edit struct {
	start, end  int
	replacement string
	category    Category
}

func newDocument(text string) *document {
	return &document{text: text}
}

func newRule(key, value string, category Category) rule {
	return rule{
		key:      key,
		value:    value,
		category: category,
		pattern:  regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key)),
		dotted:   strings.Contains(key, "."),
	}
}

// claimed reports whether [start, end) overlaps an existing span.
func (d *document) claimed(start, end int) bool {
	// Spans are sorted and disjoint, so their ends are sorted too.
	i := sort.Search(len(d.spans), func(i int) bool { return d.spans[i].End > start })
	return i < len(d.spans) && d.spans[i].Start < end
}

// apply finds every unclaimed occurrence of r accepted by the boundary
// check and replaces it with the case-adjusted value.
func (d *document) apply(r *rule, boundary func(text string, start, end int) bool) {
	var edits []edit
	text := d.text

	for pos := 0; pos < len(text); {
		loc := r.pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		if end > start && boundary(text, start, end) && !d.claimed(start, end) {
			original := text[start:end]
			edits = append(edits, edit{
				start:       start,
				end:         end,
				replacement: PreserveCase(original, r.value),
				category:    r.category,
			})
			pos = end
			continue
		}

		// Rejected: retry one rune later so a shadowed candidate cannot
		// hide a valid one that starts inside it.
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}

	d.replace(edits)
}

// replace applies edits (sorted, disjoint, unclaimed) and shifts the
// offsets of existing spans to match the new text.
func (d *document) replace(edits []edit) {
	if len(edits) == 0 {
		return
	}

	var b strings.Builder
	b.Grow(len(d.text))
	spans := make([]MatchSpan, 0, len(d.spans)+len(edits))

	delta, last, i := 0, 0, 0
	for _, e := range edits {
		for ; i < len(d.spans) && d.spans[i].Start < e.start; i++ {
			spans = append(spans, shift(d.spans[i], delta))
		}

		b.WriteString(d.text[last:e.start])
		start := e.start + delta
		b.WriteString(e.replacement)
		spans = append(spans, MatchSpan{
			Start:       start,
			End:         start + len(e.replacement),
			Original:    d.text[e.start:e.end],
			Replacement: e.replacement,
			Category:    e.category,
		})

		delta += len(e.replacement) - (e.end - e.start)
		last = e.end
	}
	b.WriteString(d.text[last:])

	for ; i < len(d.spans); i++ {
		spans = append(spans, shift(d.spans[i], delta))
	}

	d.text = b.String()
	d.spans = spans
}

func shift(s MatchSpan, delta int) MatchSpan {
	s.Start += delta
	s.End += delta
	return s
}

// wordBoundary reports whether text[start:end] stands as a whole word: each
// end that is a word character must not touch another word character.
func wordBoundary(text string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(text[start:end])
	if isWordRune(first) && start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(prev) {
			return false
		}
	}

	last, _ := utf8.DecodeLastRuneInString(text[start:end])
	if isWordRune(last) && end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(next) {
			return false
		}
	}

	return true
}

// spaceDelimited reports whether text[start:end] is preceded by the start of
// text or whitespace and followed by whitespace. Used for titles ending in a
// period, where a word boundary cannot follow the period.
func spaceDelimited(text string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if !unicode.IsSpace(prev) {
			return false
		}
	}

	if end >= len(text) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	return unicode.IsSpace(next)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
