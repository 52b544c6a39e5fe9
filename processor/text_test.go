package processor

import (
	"errors"
	"strings"
	"testing"

	"github.com/ZaguanLabs/anglify"
)

func TestTextProcessor_Extract(t *testing.T) {
	p := NewTextProcessor()

	content := "Lunch is at 12:15 today.\n\n  Lunch is at 12:15 today.\nThe parking lot was full.\n"
	_, nodes, err := p.Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 2 {
		t.Fatalf("Expected 2 unique lines, got %d", len(nodes))
	}
	if nodes[0].Metadata["line"] != "1" {
		t.Errorf("Expected first node on line 1, got %q", nodes[0].Metadata["line"])
	}
	if nodes[1].Text != "The parking lot was full." {
		t.Errorf("Unexpected second node %q", nodes[1].Text)
	}
	if nodes[1].NodeType != "plain_text" {
		t.Errorf("Expected node type 'plain_text', got %q", nodes[1].NodeType)
	}
}

func TestTextProcessor_Apply(t *testing.T) {
	p := NewTextProcessor()

	content := "Lunch is at 12:15 today.\n\n  Hello there!\nThe parking lot was full."
	parsed, nodes, err := p.Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	result, err := p.Apply(parsed, nodes, translateNodes(nodes, anglify.AmericanToBritish))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := "Lunch is at <span class=\"highlight\">12.15</span> today.\n\n  Hello there!\nThe <span class=\"highlight\">car park</span> was full."
	if result != want {
		t.Errorf("Apply() =\n%q\nwant\n%q", result, want)
	}
}

func TestTextProcessor_Apply_Plain(t *testing.T) {
	p := NewTextProcessor().Plain()

	parsed, nodes, err := p.Extract("  Dr. Grosh will see you now.\n")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	result, err := p.Apply(parsed, nodes, translateNodes(nodes, anglify.AmericanToBritish))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if result != "  Dr Grosh will see you now.\n" {
		t.Errorf("Apply() = %q", result)
	}
	if strings.Contains(result, "highlight") {
		t.Error("Plain output should not contain markup")
	}
}

func TestTextProcessor_Apply_InvalidParsed(t *testing.T) {
	_, err := NewTextProcessor().Apply(42, nil, nil)

	var procErr *anglify.ProcessorError
	if !errors.As(err, &procErr) || procErr.ContentType != "text" {
		t.Errorf("Expected text ProcessorError, got %v", err)
	}
}
