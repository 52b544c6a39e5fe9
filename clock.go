package anglify

import "regexp"

var (
	// American clock time, "12:15".
	colonTime = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	// British clock time, "12.15".
	periodTime = regexp.MustCompile(`\b(\d{1,2})\.(\d{2})\b`)
)

// RewriteTime swaps the hour/minute separator of clock times for dir:
// "12:15" becomes "12.15" American→British and "4.30" becomes "4:30" the
// other way. The whole time is reported as the span. Unknown directions
// leave text unchanged.
func RewriteTime(text string, dir Direction) (string, []MatchSpan) {
	doc := newDocument(text)
	doc.rewriteTime(dir)
	return doc.text, doc.spans
}

func (d *document) rewriteTime(dir Direction) {
	var (
		pattern *regexp.Regexp
		sep     string
	)
	switch dir {
	case AmericanToBritish:
		pattern, sep = colonTime, "."
	case BritishToAmerican:
		pattern, sep = periodTime, ":"
	default:
		return
	}

	var edits []edit
	for _, m := range pattern.FindAllStringSubmatchIndex(d.text, -1) {
		start, end := m[0], m[1]
		if d.claimed(start, end) {
			continue
		}
		edits = append(edits, edit{
			start:       start,
			end:         end,
			replacement: d.text[m[2]:m[3]] + sep + d.text[m[4]:m[5]],
			category:    CategoryTime,
		})
	}

	d.replace(edits)
}
