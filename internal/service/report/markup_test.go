package report

import (
	"encoding/json"
	"testing"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Spring Boot services", "Spring Boot services"},
		{"comparison kept", "if a < b and b > c", "if a < b and b > c"},
		{"paragraphs", "<p>First</p><p>Second &amp; third</p>", "First\nSecond & third"},
		{"line breaks", "one<br>two<BR/>three", "one\ntwo\nthree"},
		{"script dropped", "<p>ok</p><script>alert(1)</script>", "ok"},
		{"inline formatting", "<p><b>Bold</b> and <i>italic</i></p>", "Bold and italic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseContentStripsPastedMarkup(t *testing.T) {
	s := testSchema(t)
	sec, _ := s.Section("abstract")
	raw, _ := json.Marshal([]string{"<p>Line one</p><p>Line two</p>"})

	c, err := ParseContent(sec, raw)
	if err != nil {
		t.Fatalf("ParseContent() error = %v", err)
	}
	if c.Pages[0] != "Line one\nLine two" {
		t.Errorf("page = %q", c.Pages[0])
	}
}
