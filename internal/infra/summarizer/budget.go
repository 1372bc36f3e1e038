package summarizer

import "textforge/internal/domain/entity"

// Budget presets in words.
const (
	ConciseMinWords  = 30
	ConciseMaxWords  = 200
	ConciseRatio     = 0.3
	DetailedMinWords = 50
	DetailedMaxWords = 500
	DetailedRatio    = 0.6

	// Used when the derived budget cannot be computed.
	ConciseFallbackWords  = 100
	DetailedFallbackWords = 200
)

// Budget returns the word budget for a summary. A positive maxLength is
// used as is; otherwise the budget derives from the cleaned word count.
func Budget(maxLength int, t entity.SummaryType, wordCount int) int {
	if maxLength > 0 {
		return maxLength
	}
	if t == entity.SummaryDetailed {
		return clamp(int(float64(wordCount)*DetailedRatio), DetailedMinWords, DetailedMaxWords)
	}
	return clamp(int(float64(wordCount)*ConciseRatio), ConciseMinWords, ConciseMaxWords)
}

func fallbackBudget(t entity.SummaryType) int {
	if t == entity.SummaryDetailed {
		return DetailedFallbackWords
	}
	return ConciseFallbackWords
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
