// Package lexicon holds the read-only linguistic resources shared by the
// summarizer: the English stop-word list and the sentence tokenizer.
//
// A Lexicon is built once at process start with Load and passed by
// reference. It is never mutated afterwards, so it is safe for concurrent
// use without locking.
package lexicon

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"textforge/internal/pkg/config"
	"textforge/internal/utils/text"
)

//go:embed stopwords_en.txt
var embeddedStopwords string

// Degradation markers reported by (*Lexicon).Degraded.
const (
	DegradedStopwords = "stopwords"
	DegradedTokenizer = "tokenizer"
)

var (
	// ErrTokenizerUnavailable is returned by Sentences when no sentence model is loaded.
	ErrTokenizerUnavailable = errors.New("sentence tokenizer unavailable")
	// ErrNoSentences is returned by Sentences when the model yields nothing for non-empty text.
	ErrNoSentences = errors.New("sentence tokenizer produced no sentences")
)

// Config selects the stop-word source. An empty StopwordsPath uses the
// embedded NLTK English list.
type Config struct {
	StopwordsPath string
}

// LoadConfig reads STOPWORDS_FILE.
func LoadConfig() Config {
	return Config{StopwordsPath: config.LoadEnvString("STOPWORDS_FILE", "")}
}

type sentenceTokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// Lexicon is the immutable set of linguistic resources.
type Lexicon struct {
	stopwords map[string]struct{}
	tokenizer sentenceTokenizer
	degraded  []string
}

// Load builds a Lexicon. It never fails: an unreadable or empty stop-word
// source is replaced by the built-in minimal set, and a sentence model that
// cannot be built leaves the lexicon without a tokenizer. Every substitution
// is logged and reported by Degraded.
func Load(cfg Config, logger *slog.Logger) *Lexicon {
	if logger == nil {
		logger = slog.Default()
	}
	lx := &Lexicon{}

	words, err := readStopwords(cfg.StopwordsPath)
	if err != nil {
		logger.Warn("stop words unavailable, using built-in set",
			slog.String("path", cfg.StopwordsPath),
			slog.Any("error", err))
		words = builtinStopwords
		lx.degraded = append(lx.degraded, DegradedStopwords)
	}
	lx.stopwords = toSet(words)

	tok, err := newTokenizer()
	if err != nil {
		logger.Warn("sentence model unavailable, using punctuation splitter",
			slog.Any("error", err))
		lx.degraded = append(lx.degraded, DegradedTokenizer)
	} else {
		lx.tokenizer = tok
	}

	logger.Info("lexicon loaded",
		slog.Int("stopwords", len(lx.stopwords)),
		slog.Bool("sentence_model", lx.tokenizer != nil))
	return lx
}

// Builtin returns the fallback lexicon: the minimal stop-word set and no
// sentence model.
func Builtin() *Lexicon {
	return &Lexicon{
		stopwords: toSet(builtinStopwords),
		degraded:  []string{DegradedStopwords, DegradedTokenizer},
	}
}

// IsStopword reports whether the lower-cased word is a stop word.
func (l *Lexicon) IsStopword(word string) bool {
	_, ok := l.stopwords[word]
	return ok
}

// Words returns the lower-cased word tokens of s in order, stop words
// included.
func (l *Lexicon) Words(s string) []string {
	return text.Tokens(strings.ToLower(s))
}

// StopwordCount returns the size of the stop-word set.
func (l *Lexicon) StopwordCount() int { return len(l.stopwords) }

// HasSentenceModel reports whether Sentences can use the Punkt model.
func (l *Lexicon) HasSentenceModel() bool { return l.tokenizer != nil }

// Degraded lists the resources that fell back to built-in substitutes.
func (l *Lexicon) Degraded() []string {
	out := make([]string, len(l.degraded))
	copy(out, l.degraded)
	return out
}

// Sentences splits text with the Punkt model. Callers fall back to
// SplitSentences on error.
func (l *Lexicon) Sentences(s string) ([]string, error) {
	if l.tokenizer == nil {
		return nil, ErrTokenizerUnavailable
	}
	var out []string
	for _, sent := range l.tokenizer.Tokenize(s) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 && strings.TrimSpace(s) != "" {
		return nil, ErrNoSentences
	}
	return out, nil
}

var reSentenceEnd = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits on runs of ".", "!" and "?", dropping the
// terminators and empty pieces.
func SplitSentences(s string) []string {
	var out []string
	for _, part := range reSentenceEnd.Split(s, -1) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func newTokenizer() (tok sentenceTokenizer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("load english model: %v", r)
		}
	}()
	t, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english model: %w", err)
	}
	return t, nil
}

func readStopwords(path string) ([]string, error) {
	if path == "" {
		return parseStopwords(strings.NewReader(embeddedStopwords))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stop words: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseStopwords(f)
}

func parseStopwords(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stop words: %w", err)
	}
	if len(words) == 0 {
		return nil, errors.New("stop word list is empty")
	}
	return words, nil
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
