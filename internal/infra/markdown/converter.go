// Package markdown converts between plain text and markdown.
//
// The forward direction classifies each blank-line separated paragraph
// (code, bullet list, numbered list, prose) through an ordered rule list
// and formats it. The reverse direction renders markdown to HTML with
// goldmark and linearizes the parsed tree back to text.
package markdown

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"textforge/internal/domain/entity"
	"textforge/internal/pkg/config"
)

// ErrConversionFailed wraps any fault raised while converting.
var ErrConversionFailed = errors.New("conversion failed")

// Converter is safe for concurrent use.
type Converter struct {
	rules   []Rule
	engine  goldmark.Markdown
	metrics MetricsRecorder
	logger  *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithWeights replaces the code-detection weights.
func WithWeights(w CodeWeights) Option {
	return func(c *Converter) { c.rules = DefaultRules(w) }
}

// WithRules replaces the whole classification cascade.
func WithRules(rules []Rule) Option {
	return func(c *Converter) { c.rules = rules }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Converter) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// New builds a Converter with the default weights.
func New(opts ...Option) *Converter {
	c := &Converter{
		rules: DefaultRules(DefaultCodeWeights()),
		engine: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		metrics: NoopMetrics{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WeightsFromEnv loads MARKDOWN_HEURISTICS_FILE when set. A file that
// cannot be used is logged and the defaults are returned.
func WeightsFromEnv(logger *slog.Logger) CodeWeights {
	path := config.LoadEnvString("MARKDOWN_HEURISTICS_FILE", "")
	if path == "" {
		return DefaultCodeWeights()
	}
	w, err := LoadCodeWeights(path)
	if err != nil {
		logger.Warn("markdown heuristics unavailable, using defaults",
			slog.String("path", path),
			slog.Any("error", err))
		return DefaultCodeWeights()
	}
	return w
}

// Convert dispatches on mode. Unknown modes fail with entity.ErrInvalidMode
// before the text is looked at.
func (c *Converter) Convert(text string, mode entity.ConversionMode) (string, error) {
	switch mode {
	case entity.ModeToMarkdown:
		return c.ToMarkdown(text)
	case entity.ModeToText:
		return c.ToText(text)
	}
	return "", fmt.Errorf("%w: %q", entity.ErrInvalidMode, mode)
}

// ToMarkdown formats plain text as markdown.
func (c *Converter) ToMarkdown(text string) (string, error) {
	return c.run(entity.ModeToMarkdown, text, func(s string) (string, error) {
		f := &forward{rules: c.rules, observe: func(b Block) { c.metrics.RecordBlock(b.Kind()) }}
		return f.convert(s), nil
	})
}

// ToText flattens markdown to plain text.
func (c *Converter) ToText(md string) (string, error) {
	return c.run(entity.ModeToText, md, c.toText)
}

func (c *Converter) run(mode entity.ConversionMode, in string, fn func(string) (string, error)) (out string, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrConversionFailed, r)
		}
		status := "success"
		switch {
		case errors.Is(err, entity.ErrEmptyInput):
			status = "empty"
		case err != nil:
			status = "error"
			c.logger.Error("markdown conversion failed",
				slog.String("mode", string(mode)),
				slog.Any("error", err))
		}
		c.metrics.RecordConversion(string(mode), status, time.Since(start))
	}()

	if strings.TrimSpace(in) == "" {
		return "", entity.ErrEmptyInput
	}
	out, err = fn(in)
	if err != nil && !errors.Is(err, ErrConversionFailed) {
		err = fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	return out, err
}
