package ocr

import (
	"regexp"
	"strings"
)

var (
	multiBreak = regexp.MustCompile(`\n{2,}`)
	multiSpace = regexp.MustCompile(`[ \t]{2,}`)
)

// NormalizeWhitespace collapses repeated line breaks to one, repeated spaces
// to one, and trims leading/trailing whitespace.
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = multiBreak.ReplaceAllString(s, "\n")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
