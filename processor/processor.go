// Package processor extracts rewritable text from documents and writes the
// rewritten text back. Text documents are handled line by line; HTML
// documents text node by text node.
package processor

import (
	"strings"
	"unicode"

	"github.com/ZaguanLabs/anglify"
)

// ContentProcessor is anglify.ContentProcessor, repeated here so callers of
// this package need not import both.
type ContentProcessor = anglify.ContentProcessor

// preserveWhitespace puts the whitespace around original back around the
// rewritten text, which is always produced from the trimmed form.
func preserveWhitespace(original, rewritten string) string {
	leading, trailing := surroundingWhitespace(original)
	return leading + rewritten + trailing
}

// surroundingWhitespace splits off the leading and trailing whitespace of s.
// An all-blank s is returned entirely as leading.
func surroundingWhitespace(s string) (leading, trailing string) {
	body := strings.TrimLeftFunc(s, unicode.IsSpace)
	leading = s[:len(s)-len(body)]
	trailing = body[len(strings.TrimRightFunc(body, unicode.IsSpace)):]
	return leading, trailing
}
