package processor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/anglify"
)

// TextProcessor rewrites plain text line by line. Each non-blank line is a
// separate unit, so spans never cross a line break.
type TextProcessor struct {
	plain bool
}

// NewTextProcessor creates a text processor that emits highlight markup.
func NewTextProcessor() *TextProcessor {
	return &TextProcessor{}
}

// Plain makes the processor write rewritten text without highlight markup.
func (p *TextProcessor) Plain() *TextProcessor {
	p.plain = true
	return p
}

// Extract splits content into lines and returns one node per unique
// trimmed line.
func (p *TextProcessor) Extract(content string) (interface{}, []anglify.TextNode, error) {
	lines := strings.SplitAfter(content, "\n")

	var nodes []anglify.TextNode
	seenHashes := make(map[string]bool)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		hash := anglify.HashText(trimmed)
		if seenHashes[hash] {
			continue
		}
		seenHashes[hash] = true

		nodes = append(nodes, anglify.TextNode{
			ID:       fmt.Sprintf("line-%d", i+1),
			Text:     trimmed,
			Hash:     hash,
			NodeType: "plain_text",
			Metadata: map[string]string{"line": strconv.Itoa(i + 1)},
		})
	}

	return lines, nodes, nil
}

// Apply rebuilds the text from its lines, replacing each changed line.
func (p *TextProcessor) Apply(parsed interface{}, nodes []anglify.TextNode, results map[string]anglify.Result) (string, error) {
	lines, ok := parsed.([]string)
	if !ok {
		return "", &anglify.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "text",
		}
	}

	var b strings.Builder
	for _, line := range lines {
		res, ok := results[anglify.HashText(line)]
		if !ok || !res.Changed() || strings.TrimSpace(line) == "" {
			b.WriteString(line)
			continue
		}

		out := res.Highlighted()
		if p.plain {
			out = res.Text
		}
		b.WriteString(preserveWhitespace(line, out))
	}

	return b.String(), nil
}

// ContentType returns "text".
func (p *TextProcessor) ContentType() string {
	return "text"
}

// Verify TextProcessor implements ContentProcessor
var _ ContentProcessor = (*TextProcessor)(nil)
