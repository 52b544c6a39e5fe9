package anglify

// Category identifies which dictionary produced a replacement.
type Category string

const (
	// CategoryTitle marks an honorific title swap (Mr. -> Mr).
	CategoryTitle Category = "title"
	// CategoryTime marks a clock-time separator swap (12:15 -> 12.15).
	CategoryTime Category = "time"
	// CategoryVocabulary marks a word or phrase unique to one locale (trashcan -> bin).
	CategoryVocabulary Category = "vocabulary"
	// CategorySpelling marks an orthographic variant (color -> colour).
	CategorySpelling Category = "spelling"
)

// MatchSpan is one replaced run of text.
//
// Start and End are byte offsets into the rewritten text (Result.Text), so
// Text[Start:End] == Replacement.
type MatchSpan struct {
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Original    string   `json:"original"`
	Replacement string   `json:"replacement"`
	Category    Category `json:"category"`
}

// Result is the outcome of translating one piece of text.
type Result struct {
	Text      string      `json:"text"`      // Rewritten text without markup
	Direction Direction   `json:"direction"` // Direction the text was translated in
	Spans     []MatchSpan `json:"spans"`     // Replaced spans, left to right
}

// Changed reports whether any span was replaced. A Result with no spans is
// the "nothing to translate" outcome.
func (r Result) Changed() bool {
	return len(r.Spans) > 0
}

// TextNode represents a translatable unit of content inside a document.
type TextNode struct {
	ID       string            // Position-derived identifier
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	NodeType string            // Content type: "html_text", "plain_text"
	Metadata map[string]string // Additional info (parent tag, line number, etc.)
}

// ProcessedContent is the result of rewriting a whole document.
type ProcessedContent struct {
	Content      string // Rewritten content
	TotalNodes   int    // Unique translatable nodes found
	ChangedNodes int    // Nodes with at least one replacement
	SpanCount    int    // Replacements across all unique nodes
	CachedCount  int    // Nodes served from the cache
}

// count adds the changed nodes and their spans in results to the stats.
func (p *ProcessedContent) count(results map[string]Result) {
	for _, res := range results {
		if res.Changed() {
			p.ChangedNodes++
			p.SpanCount += len(res.Spans)
		}
	}
}

// IgnoredTags contains HTML tags whose content is never rewritten.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
