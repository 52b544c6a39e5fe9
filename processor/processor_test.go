package processor

import "testing"

func TestSurroundingWhitespace(t *testing.T) {
	tests := []struct {
		in, leading, trailing string
	}{
		{"color", "", ""},
		{"  color\n", "  ", "\n"},
		{" color\t", " ", "\t"},
		{"   ", "   ", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		leading, trailing := surroundingWhitespace(tt.in)
		if leading != tt.leading || trailing != tt.trailing {
			t.Errorf("surroundingWhitespace(%q) = %q, %q; want %q, %q", tt.in, leading, trailing, tt.leading, tt.trailing)
		}
	}

	if got := preserveWhitespace(" color \n", "colour"); got != " colour \n" {
		t.Errorf("preserveWhitespace = %q", got)
	}
}
