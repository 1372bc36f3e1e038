package summarizer

import (
	"math"
	"unicode"

	"textforge/internal/domain/entity"
	"textforge/internal/infra/lexicon"
)

// Positional decay per sentence index. Index 0 always weighs 1.0.
const (
	ConciseDecay  = 0.95
	DetailedDecay = 0.98
)

// Decay returns the positional decay base for t.
func Decay(t entity.SummaryType) float64 {
	if t == entity.SummaryDetailed {
		return DetailedDecay
	}
	return ConciseDecay
}

// FrequencyTable maps a case-folded content word to its frequency divided
// by the highest frequency in the document, so values lie in (0, 1].
type FrequencyTable map[string]float64

// BuildFrequencyTable counts alphanumeric, non-stop-word tokens across all
// sentences.
func BuildFrequencyTable(sentences []string, lex *lexicon.Lexicon) FrequencyTable {
	counts := make(map[string]int)
	maxCount := 0
	for _, s := range sentences {
		for _, tok := range lex.Words(s) {
			if !isAlnum(tok) || lex.IsStopword(tok) {
				continue
			}
			counts[tok]++
			if counts[tok] > maxCount {
				maxCount = counts[tok]
			}
		}
	}
	table := make(FrequencyTable, len(counts))
	for w, c := range counts {
		table[w] = float64(c) / float64(maxCount)
	}
	return table
}

// ScoreSentences returns one non-negative score per sentence: the sum of
// its words' normalized frequencies, divided by the square root of its
// token count, times decay^index.
func ScoreSentences(sentences []string, t entity.SummaryType, lex *lexicon.Lexicon) []float64 {
	table := BuildFrequencyTable(sentences, lex)
	decay := Decay(t)
	scores := make([]float64, len(sentences))
	for i, s := range sentences {
		toks := lex.Words(s)
		var score float64
		for _, tok := range toks {
			score += table[tok]
		}
		if len(toks) > 0 {
			score /= math.Sqrt(float64(len(toks)))
		}
		if i > 0 {
			score *= math.Pow(decay, float64(i))
		}
		scores[i] = score
	}
	return scores
}

func uniformScores(n int) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1
	}
	return scores
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
