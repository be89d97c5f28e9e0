package extract

import (
	"context"
	"testing"
)

func TestIsPDF(t *testing.T) {
	cases := []struct {
		mime string
		name string
		data []byte
		want bool
	}{
		{"application/pdf", "x.bin", nil, true},
		{"application/octet-stream", "notes.PDF", nil, true},
		{"application/octet-stream", "x.bin", []byte("%PDF-1.7 rest"), true},
		{"image/png", "photo.png", []byte{0x89, 0x50}, false},
	}
	for _, tc := range cases {
		if got := IsPDF(tc.mime, tc.name, tc.data); got != tc.want {
			t.Errorf("IsPDF(%q, %q) = %v, want %v", tc.mime, tc.name, got, tc.want)
		}
	}
}

func TestTextFromPDFRejectsNonPDF(t *testing.T) {
	if _, err := TextFromPDF(context.Background(), []byte("not a pdf")); err == nil {
		t.Fatal("expected error for non-PDF payload")
	}
}
