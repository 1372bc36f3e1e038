// Package text provides utilities for text processing and analysis.
// Word counting here is the single definition of a "word" used by the
// summarizer budget, the API responses and the stored records.
package text

import (
	"strings"
	"unicode"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
//	CountRunes("hello")     // 5
//	CountRunes("hello世界") // 7
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// Tokens splits text into maximal runs of letters, digits and apostrophes.
// Everything else is a separator.
func Tokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !isTokenRune(r)
	})
}

// Words returns the tokens of text that contain at least one letter.
// Pure numbers and stray apostrophes are not words.
func Words(text string) []string {
	tokens := Tokens(text)
	words := tokens[:0]
	for _, tok := range tokens {
		if hasLetter(tok) {
			words = append(words, tok)
		}
	}
	return words
}

// CountWords returns len(Words(text)) without allocating the slice.
//
// Joining two texts with a single space never changes the total:
// CountWords(a + " " + b) == CountWords(a) + CountWords(b).
func CountWords(text string) int {
	n := 0
	inToken := false
	letter := false
	for _, r := range text {
		if isTokenRune(r) {
			inToken = true
			if unicode.IsLetter(r) {
				letter = true
			}
			continue
		}
		if inToken && letter {
			n++
		}
		inToken, letter = false, false
	}
	if inToken && letter {
		n++
	}
	return n
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
