package anglify_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/anglify"
	"github.com/ZaguanLabs/anglify/cache"
	"github.com/ZaguanLabs/anglify/processor"
)

// Integration tests using all real components

func newIntegrationTranslator(c anglify.TranslationCache) *anglify.Translator {
	opts := []anglify.TranslatorOption{
		anglify.WithProcessor(processor.NewHTMLProcessor()),
		anglify.WithProcessor(processor.NewTextProcessor()),
	}
	if c != nil {
		opts = append(opts, anglify.WithCache(c))
	}
	return anglify.NewTranslator(nil, opts...)
}

func TestIntegration_BasicTranslation(t *testing.T) {
	translator := newIntegrationTranslator(cache.NewInMemoryCache(3600))

	html := `<div><p>My favorite color</p></div>`
	result, err := translator.ProcessHTML(context.Background(), html, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	want := `<p>My <span class="highlight">favourite</span> <span class="highlight">colour</span></p>`
	if !strings.Contains(result.Content, want) {
		t.Errorf("Expected %s in result, got: %s", want, result.Content)
	}
	if result.ChangedNodes != 1 || result.SpanCount != 2 {
		t.Errorf("Expected 1 changed node with 2 spans, got %d and %d", result.ChangedNodes, result.SpanCount)
	}
}

func TestIntegration_CacheHit(t *testing.T) {
	c := cache.NewInMemoryCache(3600)
	translator := newIntegrationTranslator(c)

	html := `<p>The parking lot</p>`

	// First call
	result1, err := translator.ProcessHTML(context.Background(), html, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("First ProcessHTML failed: %v", err)
	}
	if result1.ChangedNodes != 1 || result1.CachedCount != 0 {
		t.Errorf("First call: expected 1 changed, 0 cached; got %d, %d",
			result1.ChangedNodes, result1.CachedCount)
	}

	// Second call - should use cache
	result2, err := translator.ProcessHTML(context.Background(), html, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("Second ProcessHTML failed: %v", err)
	}
	if result2.CachedCount != 1 {
		t.Errorf("Second call: expected 1 cached, got %d", result2.CachedCount)
	}
	if result1.Content != result2.Content {
		t.Errorf("cached output differs:\n%s\n%s", result1.Content, result2.Content)
	}

	if c.Len() != 1 {
		t.Errorf("Expected 1 cache entry, got %d", c.Len())
	}
}

func TestIntegration_IgnoredTags(t *testing.T) {
	translator := newIntegrationTranslator(nil)

	html := `<div>
		<p>color</p>
		<script>var color = "gray";</script>
		<style>.color { color: gray; }</style>
		<code>color</code>
	</div>`

	result, err := translator.ProcessHTML(context.Background(), html, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	// Only the <p> content should be rewritten
	if result.TotalNodes != 1 {
		t.Errorf("Expected 1 translatable node, got %d", result.TotalNodes)
	}
	if !strings.Contains(result.Content, `var color = "gray";`) {
		t.Error("Script content should not be rewritten")
	}
	if !strings.Contains(result.Content, `<code>color</code>`) {
		t.Error("Code content should not be rewritten")
	}
}

func TestIntegration_DataNoTranslate(t *testing.T) {
	translator := newIntegrationTranslator(nil)

	html := `<div>
		<p data-no-translate>Keep my color</p>
		<p>Change my color</p>
	</div>`

	result, err := translator.ProcessHTML(context.Background(), html, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if result.TotalNodes != 1 {
		t.Errorf("Expected 1 translatable node, got %d", result.TotalNodes)
	}
	if !strings.Contains(result.Content, "Keep my color") {
		t.Error("data-no-translate content should be unchanged")
	}
}

func TestIntegration_SetsTargetLang(t *testing.T) {
	translator := newIntegrationTranslator(nil)

	html := `<html lang="en-GB"><body><p>The car park</p></body></html>`
	result, err := translator.ProcessHTML(context.Background(), html, anglify.BritishToAmerican)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if !strings.Contains(result.Content, `lang="en-US"`) {
		t.Errorf("Result should contain lang='en-US', got: %s", result.Content)
	}
	if !strings.Contains(result.Content, "parking lot") {
		t.Errorf("Result should contain 'parking lot', got: %s", result.Content)
	}
}

func TestIntegration_Deduplication(t *testing.T) {
	translator := newIntegrationTranslator(nil)

	html := `<ul><li>truck</li><li>truck</li><li>truck</li></ul>`
	result, err := translator.ProcessHTML(context.Background(), html, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if result.TotalNodes != 1 {
		t.Errorf("Expected 1 unique node, got %d", result.TotalNodes)
	}
	if n := strings.Count(result.Content, `<span class="highlight">lorry</span>`); n != 3 {
		t.Errorf("Expected every occurrence rewritten, got %d in %s", n, result.Content)
	}
}

func TestIntegration_EmptyContent(t *testing.T) {
	translator := newIntegrationTranslator(nil)

	result, err := translator.ProcessHTML(context.Background(), "<div></div>", anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}
	if result.TotalNodes != 0 {
		t.Errorf("Expected TotalNodes 0 for empty content, got %d", result.TotalNodes)
	}
}

func TestIntegration_WhitespacePreserved(t *testing.T) {
	translator := newIntegrationTranslator(nil)

	html := `<p>  favorite  </p>`
	result, err := translator.ProcessHTML(context.Background(), html, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if !strings.Contains(result.Content, `<p>  <span class="highlight">favourite</span>  </p>`) {
		t.Errorf("Whitespace should be preserved, got: %s", result.Content)
	}
}

func TestIntegration_PlainText(t *testing.T) {
	translator := anglify.NewTranslator(nil, anglify.WithProcessor(processor.NewTextProcessor().Plain()))

	content := "I drove my truck\n\n  to the gas station at 9:30.\n"
	result, err := translator.Process(context.Background(), content, "text", anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	want := "I drove my lorry\n\n  to the petrol station at 9.30.\n"
	if result.Content != want {
		t.Errorf("Content = %q, want %q", result.Content, want)
	}
}

func TestIntegration_SnapshotSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	first := cache.NewInMemoryCache(0)
	translator := newIntegrationTranslator(first)
	if _, err := translator.ProcessHTML(context.Background(), `<p>My favorite color</p>`, anglify.AmericanToBritish); err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}
	revision := translator.Dictionaries().Revision()
	if err := cache.SaveSnapshot(path, first, cache.SnapshotInfo{Revision: revision}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	second := cache.NewInMemoryCache(0)
	restored, err := cache.LoadSnapshot(path, second, revision)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if restored.Restored != 1 || restored.Stale != 0 {
		t.Errorf("restore = %+v, want 1 entry restored", restored)
	}

	result, err := newIntegrationTranslator(second).ProcessHTML(context.Background(), `<p>My favorite color</p>`, anglify.AmericanToBritish)
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}
	if result.CachedCount != 1 {
		t.Errorf("Expected node served from imported cache, got CachedCount %d", result.CachedCount)
	}
}
