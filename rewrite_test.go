package anglify

import "testing"

func TestDocument_ReplaceShiftsExistingSpans(t *testing.T) {
	doc := newDocument("a bb c")

	doc.replace([]edit{{start: 2, end: 4, replacement: "XXXX", category: CategorySpelling}})
	doc.replace([]edit{{start: 0, end: 1, replacement: "YY", category: CategoryTitle}})

	if doc.text != "YY XXXX c" {
		t.Fatalf("text = %q", doc.text)
	}

	want := []MatchSpan{
		{Start: 0, End: 2, Original: "a", Replacement: "YY", Category: CategoryTitle},
		{Start: 3, End: 7, Original: "bb", Replacement: "XXXX", Category: CategorySpelling},
	}
	if len(doc.spans) != len(want) {
		t.Fatalf("spans = %+v", doc.spans)
	}
	for i := range want {
		if doc.spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, doc.spans[i], want[i])
		}
		if got := doc.text[doc.spans[i].Start:doc.spans[i].End]; got != want[i].Replacement {
			t.Errorf("span %d covers %q, want %q", i, got, want[i].Replacement)
		}
	}
}

func TestDocument_Claimed(t *testing.T) {
	doc := newDocument("one two three")
	doc.replace([]edit{{start: 4, end: 7, replacement: "TWO"}})

	tests := []struct {
		start, end int
		want       bool
	}{
		{0, 3, false},
		{0, 4, false},
		{3, 5, true},
		{4, 7, true},
		{5, 6, true},
		{6, 9, true},
		{7, 13, false},
	}

	for _, tt := range tests {
		if got := doc.claimed(tt.start, tt.end); got != tt.want {
			t.Errorf("claimed(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestWordBoundary(t *testing.T) {
	tests := []struct {
		text       string
		start, end int
		want       bool
	}{
		{"color", 0, 5, true},
		{"colorful", 0, 5, false},
		{"tricolor", 3, 8, false},
		{"color_scheme", 0, 5, false},
		{"(color)", 1, 6, true},
		{"go to A&E now", 6, 9, true},
		{"café", 0, 3, false},
	}

	for _, tt := range tests {
		if got := wordBoundary(tt.text, tt.start, tt.end); got != tt.want {
			t.Errorf("wordBoundary(%q, %d, %d) = %v, want %v", tt.text, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSpaceDelimited(t *testing.T) {
	tests := []struct {
		text       string
		start, end int
		want       bool
	}{
		{"Mr. Bond", 0, 3, true},
		{"No Mr. Bond", 3, 6, true},
		{"No\tMr.\nBond", 3, 6, true},
		{"(Mr. Bond)", 1, 4, false},
		{"Ask the dr.", 8, 11, false},
		{"Dr.Who", 0, 3, false},
	}

	for _, tt := range tests {
		if got := spaceDelimited(tt.text, tt.start, tt.end); got != tt.want {
			t.Errorf("spaceDelimited(%q, %d, %d) = %v, want %v", tt.text, tt.start, tt.end, got, tt.want)
		}
	}
}
