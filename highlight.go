package anglify

import "strings"

// Markup wrapped around every replaced span in highlighted output.
const (
	HighlightOpen  = `<span class="highlight">`
	HighlightClose = `</span>`
)

// Highlighted returns the rewritten text with each span wrapped in
// HighlightOpen/HighlightClose. The rest of the text is emitted verbatim.
func (r Result) Highlighted() string {
	return Highlight(r.Text, r.Spans)
}

// Highlight wraps spans of text in highlight markup. Spans must be sorted,
// disjoint and within text, as produced by the rewriters.
func Highlight(text string, spans []MatchSpan) string {
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(HighlightOpen)+len(HighlightClose)))

	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.Start])
		b.WriteString(HighlightOpen)
		b.WriteString(text[s.Start:s.End])
		b.WriteString(HighlightClose)
		last = s.End
	}
	b.WriteString(text[last:])

	return b.String()
}
