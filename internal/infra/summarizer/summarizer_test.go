package summarizer

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textforge/internal/domain/entity"
	"textforge/internal/infra/lexicon"
	"textforge/internal/utils/text"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// longText builds n ten-word sentences.
func longText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Sentence number %d talks about the summarizer engine and word frequency. ", i)
	}
	return b.String()
}

type recordingMetrics struct {
	mu        sync.Mutex
	summaries int
	fallbacks []string
}

func (m *recordingMetrics) RecordSummary(entity.SummaryType, int, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries++
}

func (m *recordingMetrics) RecordFallback(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, stage)
}

/* ───────── Basic behavior ───────── */

func TestSummarize_EmptyInput(t *testing.T) {
	s := New(lexicon.Builtin(), WithLogger(quietLogger()))

	for _, in := range []string{"", "   ", "\n\t"} {
		assert.Equal(t, Result{}, s.Summarize(in, Options{}))
	}
}

func TestSummarize_ShortTextShortCircuit(t *testing.T) {
	s := New(lexicon.Builtin(), WithLogger(quietLogger()))

	res := s.Summarize("Hello   world.", Options{Type: entity.SummaryConcise})

	assert.Equal(t, "Hello world.", res.Summary)
	assert.Equal(t, 2, res.OriginalLength)
	assert.Equal(t, res.OriginalLength, res.SummaryLength)
	assert.Empty(t, res.Error)
}

func TestSummarize_RespectsMaxLength(t *testing.T) {
	lexicons := map[string]*lexicon.Lexicon{
		"sentence model": lexicon.Load(lexicon.Config{}, quietLogger()),
		"builtin":        lexicon.Builtin(),
	}

	for name, lx := range lexicons {
		for _, typ := range []entity.SummaryType{entity.SummaryConcise, entity.SummaryDetailed} {
			for _, maxLen := range []int{1, 15, 50, 0} {
				t.Run(fmt.Sprintf("%s/%s/%d", name, typ, maxLen), func(t *testing.T) {
					s := New(lx, WithLogger(quietLogger()))
					in := longText(40)

					res := s.Summarize(in, Options{MaxLength: maxLen, Type: typ})

					budget := Budget(maxLen, typ, text.CountWords(text.Clean(in)))
					assert.LessOrEqual(t, res.SummaryLength, max(budget, 1))
					assert.Equal(t, 400, res.OriginalLength)
					assert.Equal(t, text.CountWords(res.Summary), res.SummaryLength)
					assert.NotEmpty(t, res.Summary)
					assert.Empty(t, res.Error)
				})
			}
		}
	}
}

func TestSummarize_PreservesOrder(t *testing.T) {
	s := New(lexicon.Builtin(), WithLogger(quietLogger()))

	res := s.Summarize(longText(40), Options{Type: entity.SummaryDetailed})

	last := -1
	for i := 0; i < 40; i++ {
		pos := strings.Index(res.Summary, fmt.Sprintf("number %d talks", i))
		if pos < 0 {
			continue
		}
		assert.Greater(t, pos, last, "sentence %d out of order", i)
		last = pos
	}
	assert.GreaterOrEqual(t, last, 0)
}

func TestSummarize_FirstSentenceTruncatedToBudget(t *testing.T) {
	s := New(lexicon.Builtin(), WithLogger(quietLogger()))
	in := strings.Repeat("lengthy ", 30) + "sentence without any break at all here."

	res := s.Summarize(in, Options{MaxLength: 5})

	assert.Equal(t, 5, res.SummaryLength)
	assert.True(t, strings.HasSuffix(res.Summary, text.Ellipsis))
}

func TestSummarize_ConcurrentCallsAgree(t *testing.T) {
	s := New(lexicon.Load(lexicon.Config{}, quietLogger()), WithLogger(quietLogger()))
	in := longText(30)
	want := s.Summarize(in, Options{MaxLength: 40})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, s.Summarize(in, Options{MaxLength: 40}))
		}()
	}
	wg.Wait()
}

/* ───────── Stage fallbacks ───────── */

func TestSummarize_StageFallbacks(t *testing.T) {
	boom := func() { panic("boom") }

	tests := []struct {
		name  string
		stage string
		patch func(e *Extractive)
	}{
		{name: "cleaning panics", stage: StageCleaning, patch: func(e *Extractive) {
			e.clean = func(string) string { boom(); return "" }
		}},
		{name: "tokenizer errors", stage: StageTokenizer, patch: func(e *Extractive) {
			e.split = func(string) ([]string, error) { return nil, errors.New("model missing") }
		}},
		{name: "tokenizer yields nothing", stage: StageTokenizer, patch: func(e *Extractive) {
			e.split = func(string) ([]string, error) { return nil, nil }
		}},
		{name: "budget panics", stage: StageBudget, patch: func(e *Extractive) {
			e.budget = func(int, entity.SummaryType, int) int { boom(); return 0 }
		}},
		{name: "scoring panics", stage: StageScoring, patch: func(e *Extractive) {
			e.score = func([]string, entity.SummaryType) []float64 { boom(); return nil }
		}},
		{name: "selection panics", stage: StageSelection, patch: func(e *Extractive) {
			e.selectFn = func([]string, []float64, int) []string { boom(); return nil }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &recordingMetrics{}
			s := New(lexicon.Load(lexicon.Config{}, quietLogger()), WithLogger(quietLogger()), WithMetrics(m))
			tt.patch(s)

			res := s.Summarize(longText(20), Options{MaxLength: 40})

			assert.Contains(t, res.Degraded, tt.stage)
			assert.Contains(t, m.fallbacks, tt.stage)
			assert.Empty(t, res.Error)
			assert.NotEmpty(t, res.Summary)
			if tt.stage != StageBudget {
				assert.LessOrEqual(t, res.SummaryLength, 40)
			}
			assert.Equal(t, 1, m.summaries)
		})
	}
}

func TestSummarize_BudgetFallbackUsesPreset(t *testing.T) {
	s := New(lexicon.Builtin(), WithLogger(quietLogger()))
	s.budget = func(int, entity.SummaryType, int) int { panic("no budget") }

	res := s.Summarize(longText(40), Options{Type: entity.SummaryConcise})

	assert.LessOrEqual(t, res.SummaryLength, ConciseFallbackWords)
	assert.Greater(t, res.SummaryLength, ConciseFallbackWords-10)
}

func TestSummarize_Catastrophic(t *testing.T) {
	m := &recordingMetrics{}
	s := New(lexicon.Builtin(), WithLogger(quietLogger()), WithMetrics(m))
	s.wordCount = func(string) int { panic("counter broke") }
	in := strings.Repeat("word ", 300)

	res := s.Summarize(in, Options{})

	require.NotEmpty(t, res.Error)
	assert.True(t, strings.HasPrefix(res.Error, "Summarization failed: "))
	assert.Contains(t, res.Error, "counter broke")
	assert.Equal(t, in[:FallbackPrefixRunes]+text.Ellipsis, res.Summary)
	assert.Equal(t, 300, res.OriginalLength)
	assert.Equal(t, CatastrophicMaxSummaryWords, res.SummaryLength)
	assert.Contains(t, m.fallbacks, StageTerminal)
}

func TestSummarize_CatastrophicShortInput(t *testing.T) {
	s := New(lexicon.Builtin(), WithLogger(quietLogger()))
	s.wordCount = func(string) int { panic("counter broke") }

	res := s.Summarize("tiny input", Options{})

	assert.Equal(t, "tiny input", res.Summary)
	assert.Equal(t, 2, res.OriginalLength)
	assert.Equal(t, 2, res.SummaryLength)
}

func TestNew_NilLexicon(t *testing.T) {
	s := New(nil, WithLogger(quietLogger()))
	res := s.Summarize(longText(10), Options{MaxLength: 20})
	assert.LessOrEqual(t, res.SummaryLength, 20)
	assert.Contains(t, res.Degraded, StageTokenizer)
}
