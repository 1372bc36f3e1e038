package text

import (
	"math"
	"strings"
)

// DefaultWordsPerMinute is the average adult silent reading speed.
const DefaultWordsPerMinute = 200

// ReadingTime estimates whole minutes needed to read s, rounded up.
// Non-empty text takes at least one minute.
func ReadingTime(s string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	n := CountWords(s)
	if n == 0 {
		return 0
	}
	return int(math.Ceil(float64(n) / float64(wordsPerMinute)))
}

var languageMarkers = []struct {
	code  string
	words map[string]struct{}
}{
	{"en", set("the", "and", "is", "are", "was", "of", "to", "in", "that", "it")},
	{"es", set("el", "la", "los", "las", "y", "es", "son", "de", "que", "en")},
	{"fr", set("le", "la", "les", "et", "est", "sont", "de", "que", "dans", "une")},
}

// DetectLanguage guesses the language of s from the frequency of a few
// common function words. It returns "en", "es" or "fr"; ties and texts
// with no marker words report "en".
func DetectLanguage(s string) string {
	best, bestScore := "en", 0
	words := Words(strings.ToLower(s))
	for _, lang := range languageMarkers {
		score := 0
		for _, w := range words {
			if _, ok := lang.words[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = lang.code, score
		}
	}
	return best
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
