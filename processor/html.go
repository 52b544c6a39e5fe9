package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/anglify"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLProcessor rewrites the text nodes of an HTML document. Replaced spans
// become <span class="highlight"> elements unless the processor is plain.
type HTMLProcessor struct {
	ignoredTags map[string]bool
	plain       bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: anglify.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// Plain makes the processor write rewritten text without highlight elements.
func (p *HTMLProcessor) Plain() *HTMLProcessor {
	p.plain = true
	return p
}

// parsedHTML holds the parsed document.
type parsedHTML struct {
	doc *goquery.Document
}

// Extract parses HTML and extracts translatable text nodes, one per unique
// trimmed text.
func (p *HTMLProcessor) Extract(content string) (interface{}, []anglify.TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &anglify.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var nodes []anglify.TextNode
	seenHashes := make(map[string]bool)

	for _, n := range p.textNodes(doc) {
		trimmed := strings.TrimSpace(n.Data)
		hash := anglify.HashText(trimmed)
		if seenHashes[hash] {
			continue
		}
		seenHashes[hash] = true

		node := anglify.TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			NodeType: "html_text",
			Metadata: map[string]string{},
		}
		if n.Parent != nil {
			node.Metadata["parent_tag"] = n.Parent.Data
		}
		nodes = append(nodes, node)
	}

	return &parsedHTML{doc: doc}, nodes, nil
}

// Apply writes rewritten text back into the document.
func (p *HTMLProcessor) Apply(parsed interface{}, nodes []anglify.TextNode, results map[string]anglify.Result) (string, error) {
	ph, ok := parsed.(*parsedHTML)
	if !ok {
		return "", &anglify.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "html",
		}
	}

	// Collected up front: replacing a node while walking would break the walk.
	for _, n := range p.textNodes(ph.doc) {
		res, ok := results[anglify.HashText(n.Data)]
		if !ok || !res.Changed() {
			continue
		}

		if p.plain || n.Parent == nil {
			n.Data = preserveWhitespace(n.Data, res.Text)
			continue
		}
		replaceWithHighlights(n, res)
	}

	out, err := ph.doc.Html()
	if err != nil {
		return "", &anglify.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	return out, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// textNodes returns the non-blank text nodes outside ignored elements.
func (p *HTMLProcessor) textNodes(doc *goquery.Document) []*html.Node {
	var found []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && p.skip(n) {
			return
		}

		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			found = append(found, n)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}

	return found
}

// skip reports whether element n and everything inside it is left alone:
// ignored tags, elements opted out with translate="no" or data-no-translate,
// and elements whose lang names a language other than English.
func (p *HTMLProcessor) skip(n *html.Node) bool {
	if p.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "data-no-translate":
			return true
		case "translate":
			if strings.EqualFold(strings.TrimSpace(attr.Val), "no") {
				return true
			}
		case "lang", "xml:lang":
			if !anglify.IsEnglish(attr.Val) {
				return true
			}
		}
	}
	return false
}

// replaceWithHighlights swaps text node n for the rewritten text, with each
// span wrapped in a highlight element.
func replaceWithHighlights(n *html.Node, res anglify.Result) {
	parent := n.Parent
	leading, trailing := surroundingWhitespace(n.Data)

	insertText := func(s string) {
		if s != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: s}, n)
		}
	}

	last := 0
	for i, s := range res.Spans {
		before := res.Text[last:s.Start]
		if i == 0 {
			before = leading + before
		}
		insertText(before)

		span := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Span,
			Data:     "span",
			Attr:     []html.Attribute{{Key: "class", Val: "highlight"}},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: res.Text[s.Start:s.End]})
		parent.InsertBefore(span, n)

		last = s.End
	}
	insertText(res.Text[last:] + trailing)

	parent.RemoveChild(n)
}

// Verify HTMLProcessor implements ContentProcessor
var _ ContentProcessor = (*HTMLProcessor)(nil)
