package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reWhitespace      = regexp.MustCompile(`\s+`)
	reSpaceBeforePunc = regexp.MustCompile(`\s+([.,;:!?)])`)
	reSpaceAfterParen = regexp.MustCompile(`\(\s+`)
	reRepeatedPunc    = regexp.MustCompile(`[.,!?]+([.,!?])`)
	reURL             = regexp.MustCompile(`https?://\S+`)
)

// Clean normalizes text before summarization.
//
// Steps, in order: NFKC normalization, whitespace collapse, removal of
// whitespace before closing punctuation and after "(", collapse of
// a run of sentence punctuation to its last mark, removal of http(s)
// URLs, a second whitespace collapse and a final trim.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = reWhitespace.ReplaceAllString(s, " ")
	s = reSpaceBeforePunc.ReplaceAllString(s, "$1")
	s = reSpaceAfterParen.ReplaceAllString(s, "(")
	s = reRepeatedPunc.ReplaceAllString(s, "$1")
	s = reURL.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
