package anglify

// RewriteTitles replaces honorific titles in text using titles.
//
// Keys written with a period ("mr.") must be preceded by the start of text or
// whitespace and followed by whitespace; the whitespace is left untouched and
// is never part of a span. Keys without a period match as whole words.
func RewriteTitles(text string, titles Dictionary) (string, []MatchSpan) {
	doc := newDocument(text)
	doc.rewriteTitles(compileTitles(titles))
	return doc.text, doc.spans
}

func (d *document) rewriteTitles(rules []rule) {
	for i := range rules {
		r := &rules[i]
		if r.dotted {
			d.apply(r, spaceDelimited)
		} else {
			d.apply(r, wordBoundary)
		}
	}
}

// compileTitles builds title rules in sorted key order.
func compileTitles(titles Dictionary) []rule {
	keys := titles.Keys()
	rules := make([]rule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, newRule(k, titles[k], CategoryTitle))
	}
	return rules
}
