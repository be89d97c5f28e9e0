package ocr

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"a\n\n\nb", "a\nb"},
		{"line one\r\n\r\nline two", "line one\nline two"},
		{"tabs\t\there", "tabs here"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeWhitespace(tc.in); got != tc.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractTextFallbackWhenUnconfigured(t *testing.T) {
	svc := NewUnconfigured()

	res := svc.ExtractText(context.Background(), "notes.png", []byte{0x89, 0x50})
	if !res.Success {
		t.Fatal("fallback result must still report success")
	}
	if res.Confidence != 0 {
		t.Fatalf("fallback confidence = %v, want 0", res.Confidence)
	}
	if !strings.Contains(res.ExtractedText, "notes.png") {
		t.Fatalf("fallback text should name the image file, got %q", res.ExtractedText)
	}
}

func TestExtractStructuredTextFallsBackThroughPlainMode(t *testing.T) {
	svc := NewUnconfigured()

	res := svc.ExtractStructuredText(context.Background(), "diagram.jpg", nil)
	if !res.Success {
		t.Fatal("structured fallback must still report success")
	}
	if res.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", res.Confidence)
	}
	if !strings.Contains(res.StructuredText, "diagram.jpg") {
		t.Fatalf("placeholder should name the image file, got %q", res.StructuredText)
	}
}
