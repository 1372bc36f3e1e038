package summarizer

import (
	"sort"

	"textforge/internal/utils/text"
)

// Rank orders sentence indices by descending score. Equal scores keep
// document order.
func Rank(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	return idx
}

// SelectSentences ranks every sentence, restores document order, then adds
// sentences until the next one would exceed budget words. Selection stops
// at the first sentence that does not fit.
func SelectSentences(sentences []string, scores []float64, budget int) []string {
	if len(sentences) == 0 || len(scores) != len(sentences) {
		return nil
	}
	chosen := Rank(scores)
	sort.Ints(chosen)
	return fitPrefix(sentences, chosen, budget)
}

func fitPrefix(sentences []string, order []int, budget int) []string {
	var out []string
	words := 0
	for _, i := range order {
		n := text.CountWords(sentences[i])
		if words+n > budget {
			break
		}
		out = append(out, sentences[i])
		words += n
	}
	return out
}

func inOrder(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
