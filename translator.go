package anglify

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// Translator is the main rewriting engine.
type Translator struct {
	dicts       *DictionarySet
	cache       TranslationCache
	processors  map[string]ContentProcessor
	concurrency int
}

// TranslationCache is the interface for translation caching.
//
// A cache is an optimisation only: Get reports backend failures as misses,
// and a failed Set leaves the entry uncached without failing the translation.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor is the interface for content processing.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, results map[string]Result) (string, error)
	ContentType() string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithProcessor registers a content processor.
func WithProcessor(processor ContentProcessor) TranslatorOption {
	return func(t *Translator) {
		t.processors[processor.ContentType()] = processor
	}
}

// WithConcurrency limits how many texts a batch rewrites at once.
func WithConcurrency(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// NewTranslator creates a Translator over dicts. A nil dicts uses
// DefaultDictionaries.
func NewTranslator(dicts *DictionarySet, opts ...TranslatorOption) *Translator {
	if dicts == nil {
		dicts, _ = DefaultDictionaries()
	}

	t := &Translator{
		dicts:       dicts,
		processors:  make(map[string]ContentProcessor),
		concurrency: 8,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

var defaultTranslator = sync.OnceValue(func() *Translator {
	return NewTranslator(nil)
})

// Translate rewrites text with the default dictionaries and no cache.
func Translate(text string, dir Direction) Result {
	return defaultTranslator().Translate(text, dir)
}

// Translate rewrites text in the given direction: titles first, then clock
// times, then vocabulary and spellings. Later stages never touch text an
// earlier stage replaced.
//
// Translate never fails. Text that is not valid UTF-8 yields an empty Result,
// and an unknown direction returns text unchanged. A Result without spans
// means there was nothing to translate.
func (t *Translator) Translate(text string, dir Direction) Result {
	res, _ := t.translate(text, dir)
	return res
}

// translate is Translate that also reports whether the cache served it.
func (t *Translator) translate(text string, dir Direction) (Result, bool) {
	if !utf8.ValidString(text) {
		return Result{}, false
	}
	if !dir.Valid() || t.dicts == nil {
		return Result{Text: text}, false
	}

	var key string
	if t.cache != nil {
		key = CacheKeyVersioned(HashExact(text), dir, t.dicts.Revision())
		if cached, ok := t.cache.Get(key); ok {
			var res Result
			if err := json.Unmarshal([]byte(cached), &res); err == nil {
				return res, true
			}
		}
	}

	tables := t.dicts.tables(dir)
	doc := newDocument(text)
	doc.rewriteTitles(tables.titles)
	doc.rewriteTime(dir)
	doc.rewriteTerms(tables.terms)

	res := Result{Text: doc.text, Direction: dir, Spans: doc.spans}

	if t.cache != nil {
		if data, err := json.Marshal(res); err == nil {
			_ = t.cache.Set(key, string(data))
		}
	}

	return res, false
}

// TranslateBatch rewrites texts concurrently. Results are in input order.
// It only fails if ctx is cancelled.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, dir Direction) ([]Result, error) {
	results := make([]Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = t.Translate(text, dir)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Process rewrites content of the specified type.
func (t *Translator) Process(ctx context.Context, content string, contentType string, dir Direction) (*ProcessedContent, error) {
	if !dir.Valid() {
		return nil, &ProcessorError{
			Message:     "unknown direction " + string(dir),
			ContentType: contentType,
		}
	}

	processor, ok := t.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return &ProcessedContent{Content: content}, nil
	}

	results, cachedCount, err := t.translateNodes(ctx, nodes, dir)
	if err != nil {
		return nil, err
	}

	out, err := processor.Apply(parsed, nodes, results)
	if err != nil {
		return nil, err
	}

	if contentType == "html" {
		out = relabelHTML(out, dir)
	}

	processed := &ProcessedContent{
		Content:     out,
		TotalNodes:  len(nodes),
		CachedCount: cachedCount,
	}
	processed.count(results)
	return processed, nil
}

// ProcessHTML is a convenience method for processing HTML content.
func (t *Translator) ProcessHTML(ctx context.Context, html string, dir Direction) (*ProcessedContent, error) {
	return t.Process(ctx, html, "html", dir)
}

// translateNodes rewrites nodes, serving what it can from the cache. Results
// are keyed by node hash.
func (t *Translator) translateNodes(ctx context.Context, nodes []TextNode, dir Direction) (map[string]Result, int, error) {
	results, misses := ParallelCacheLookup(t.cache, nodes, dir, t.revision())
	cachedCount := len(results)

	texts := make([]string, len(misses))
	for i, node := range misses {
		texts[i] = node.Text
	}

	translated, err := t.TranslateBatch(ctx, texts, dir)
	if err != nil {
		return nil, 0, err
	}

	for i, node := range misses {
		results[node.Hash] = translated[i]
	}

	return results, cachedCount, nil
}

// relabelHTML sets <html lang> to the target variant. A document labelled
// as another language keeps its label.
func relabelHTML(doc string, dir Direction) string {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return doc
	}

	root := parsed.Find("html").First()
	if root.Length() == 0 {
		return doc
	}
	if lang, ok := root.Attr("lang"); ok && !IsEnglish(lang) {
		return doc
	}
	root.SetAttr("lang", dir.Tag().String())

	out, err := parsed.Html()
	if err != nil {
		return doc
	}
	return out
}

// Dictionaries returns the dictionary set the translator uses.
func (t *Translator) Dictionaries() *DictionarySet {
	return t.dicts
}

// HasProcessor reports whether a processor is registered for contentType.
func (t *Translator) HasProcessor(contentType string) bool {
	_, ok := t.processors[contentType]
	return ok
}

func (t *Translator) revision() string {
	if t.dicts == nil {
		return ""
	}
	return t.dicts.Revision()
}
