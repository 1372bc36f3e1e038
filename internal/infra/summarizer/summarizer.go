// Package summarizer implements extractive summarization: sentences of the
// input are scored by word-frequency importance with positional decay and
// a subset is returned, in document order, under a word budget.
//
// Summarize never panics and never returns an error. Each pipeline stage
// has a deterministic fallback; a terminal guard returns a truncated echo
// of the input with Result.Error set.
package summarizer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"textforge/internal/domain/entity"
	"textforge/internal/infra/lexicon"
	"textforge/internal/utils/text"
)

// Pipeline stages reported in Result.Degraded and to MetricsRecorder.
const (
	StageCleaning  = "cleaning"
	StageTokenizer = "tokenizer"
	StageBudget    = "budget"
	StageScoring   = "scoring"
	StageSelection = "selection"
	StageTerminal  = "terminal"
)

const (
	// ShortTextRunes is the cleaned length below which text is its own summary.
	ShortTextRunes = 100
	// FallbackPrefixRunes bounds the prefix returned by the empty-summary
	// and catastrophic fallbacks.
	FallbackPrefixRunes = 500
	// CatastrophicMaxSummaryWords caps SummaryLength on the catastrophic path.
	CatastrophicMaxSummaryWords = 100
)

// Options controls one summarization call. MaxLength <= 0 means unset.
type Options struct {
	MaxLength int
	Type      entity.SummaryType
}

// Result is always well formed. Error is set only on the catastrophic
// path; Degraded names the stages that used a fallback.
type Result struct {
	Summary        string
	OriginalLength int
	SummaryLength  int
	Error          string
	Degraded       []string
}

// Extractive is safe for concurrent use; each call keeps its state local.
type Extractive struct {
	lex     *lexicon.Lexicon
	metrics MetricsRecorder
	logger  *slog.Logger

	// stage hooks, replaced in tests
	clean     func(string) string
	split     func(string) ([]string, error)
	budget    func(int, entity.SummaryType, int) int
	score     func([]string, entity.SummaryType) []float64
	selectFn  func([]string, []float64, int) []string
	wordCount func(string) int
}

// Option configures an Extractive.
type Option func(*Extractive)

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Extractive) { e.metrics = m }
}

// WithLogger sets the logger used for degraded-processing warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractive) { e.logger = l }
}

// New builds a summarizer over lex. A nil lex uses lexicon.Builtin().
func New(lex *lexicon.Lexicon, opts ...Option) *Extractive {
	if lex == nil {
		lex = lexicon.Builtin()
	}
	e := &Extractive{
		lex:       lex,
		metrics:   NoopMetrics{},
		logger:    slog.Default(),
		clean:     text.Clean,
		split:     lex.Sentences,
		budget:    Budget,
		selectFn:  SelectSentences,
		wordCount: text.CountWords,
	}
	e.score = func(s []string, t entity.SummaryType) []float64 {
		return ScoreSentences(s, t, e.lex)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summarize produces an extractive summary of raw.
func (e *Extractive) Summarize(raw string, opts Options) (res Result) {
	start := time.Now()
	if opts.Type == "" {
		opts.Type = entity.SummaryConcise
	}
	defer func() {
		if r := recover(); r != nil {
			e.metrics.RecordFallback(StageTerminal)
			e.logger.Error("summarization failed", slog.Any("panic", r))
			res = catastrophic(raw, r)
		}
		e.metrics.RecordSummary(opts.Type, res.SummaryLength, time.Since(start))
	}()

	if strings.TrimSpace(raw) == "" {
		return Result{}
	}

	run := &runState{e: e}

	cleaned, err := guard(func() string { return e.clean(raw) })
	if err != nil {
		run.degrade(StageCleaning, err)
		cleaned = raw
	}

	if text.CountRunes(strings.TrimSpace(cleaned)) < ShortTextRunes {
		return run.result(cleaned, e.wordCount(raw), e.wordCount(cleaned))
	}

	sentences := run.sentences(cleaned)
	if len(sentences) == 0 {
		return run.result(cleaned, e.wordCount(raw), e.wordCount(cleaned))
	}

	budget, err := guard(func() int { return e.budget(opts.MaxLength, opts.Type, e.wordCount(cleaned)) })
	if err != nil {
		run.degrade(StageBudget, err)
		budget = fallbackBudget(opts.Type)
	}

	scores, err := guard(func() []float64 { return e.score(sentences, opts.Type) })
	if err != nil {
		run.degrade(StageScoring, err)
		scores = uniformScores(len(sentences))
	}

	selected, err := guard(func() []string { return e.selectFn(sentences, scores, budget) })
	if err != nil {
		run.degrade(StageSelection, err)
		selected = fitPrefix(sentences, inOrder(len(sentences)), budget)
	}

	if len(selected) == 0 {
		selected = []string{firstSentence(sentences[0], budget)}
	}

	summary := strings.Join(selected, " ")
	if strings.TrimSpace(summary) == "" {
		summary = text.TruncateChars(cleaned, FallbackPrefixRunes)
	}
	return run.result(summary, e.wordCount(raw), e.wordCount(summary))
}

// firstSentence trims a sentence that alone exceeds the budget so the
// summary still honors it.
func firstSentence(s string, budget int) string {
	if budget < 1 {
		budget = 1
	}
	if text.CountWords(s) <= budget {
		return s
	}
	return text.TruncateWords(s, budget) + text.Ellipsis
}

type runState struct {
	e        *Extractive
	degraded []string
}

func (r *runState) degrade(stage string, err error) {
	r.degraded = append(r.degraded, stage)
	r.e.metrics.RecordFallback(stage)
	if errors.Is(err, lexicon.ErrTokenizerUnavailable) {
		// already reported once when the lexicon was loaded
		return
	}
	r.e.logger.Warn("summarizer stage fell back",
		slog.String("stage", stage),
		slog.Any("error", err))
}

func (r *runState) sentences(cleaned string) []string {
	sentences, err := guardErr(func() ([]string, error) { return r.e.split(cleaned) })
	if err == nil && len(sentences) > 0 {
		return sentences
	}
	if err == nil {
		err = lexicon.ErrNoSentences
	}
	r.degrade(StageTokenizer, err)
	return lexicon.SplitSentences(cleaned)
}

func (r *runState) result(summary string, original, words int) Result {
	return Result{
		Summary:        summary,
		OriginalLength: original,
		SummaryLength:  words,
		Degraded:       r.degraded,
	}
}

func catastrophic(raw string, cause any) Result {
	n := len(strings.Fields(raw))
	return Result{
		Summary:        text.TruncateChars(raw, FallbackPrefixRunes),
		OriginalLength: n,
		SummaryLength:  min(n, CatastrophicMaxSummaryWords),
		Error:          fmt.Sprintf("Summarization failed: %v", cause),
	}
}

func guard[T any](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(), nil
}

func guardErr[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
