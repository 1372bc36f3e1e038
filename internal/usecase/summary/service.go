// Package summary provides the summarize use case: validate the request,
// run the extractive summarizer and store the result for the configured TTL.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel/attribute"

	"textforge/internal/domain/entity"
	"textforge/internal/infra/summarizer"
	"textforge/internal/observability/tracing"
	"textforge/internal/pkg/validate"
	"textforge/internal/repository"
	"textforge/internal/usecase/persist"
	"textforge/internal/utils/text"
)

// WarningNotSaved is set on Output when the summary could not be stored.
const WarningNotSaved = "summary generated but not saved to database"

// Summarizer is the extractive core.
type Summarizer interface {
	Summarize(raw string, opts summarizer.Options) summarizer.Result
}

// Input is one summarize request. MaxLength 0 lets the summarizer pick the
// budget; Type "" means concise.
type Input struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	Type      string `json:"type"`
}

// Validate checks the request. Blank text yields entity.ErrEmptyInput and
// an unknown type entity.ErrInvalidSummaryType.
func (in Input) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.By(func(v interface{}) error {
			if strings.TrimSpace(v.(string)) == "" {
				return entity.ErrEmptyInput
			}
			return nil
		})),
		validation.Field(&in.MaxLength, validation.Min(1).Error("must be a positive integer")),
		validation.Field(&in.Type, validation.By(func(v interface{}) error {
			_, err := entity.ParseSummaryType(v.(string))
			return err
		})),
	)
	return validate.First(err, "text", "type", "max_length")
}

// Output is the summarize response. ID is 0 when the summary was not stored.
type Output struct {
	ID             int64
	Summary        string
	OriginalLength int
	SummaryLength  int
	Error          string
	Warning        string
	Degraded       []string
}

// Service wires the summarizer to the summary store. Repo may be nil, in
// which case nothing is stored and no warning is raised.
type Service struct {
	Repo       repository.SummaryRepository
	Summarizer Summarizer
	Guard      *persist.Guard
	TTL        time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// NewService returns a Service with the default store guard.
func NewService(repo repository.SummaryRepository, sum Summarizer, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:       repo,
		Summarizer: sum,
		Guard:      persist.NewGuard(logger),
		TTL:        ttl,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Summarize validates in, summarizes the text and stores the result.
// Storage failures only set Output.Warning.
func (s *Service) Summarize(ctx context.Context, in Input) (*Output, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	kind, _ := entity.ParseSummaryType(in.Type)

	ctx, span := tracing.Start(ctx, "summary.Summarize",
		attribute.String("summary.type", string(kind)),
		attribute.Int("summary.max_length", in.MaxLength),
	)
	defer span.End()

	res := s.Summarizer.Summarize(in.Text, summarizer.Options{MaxLength: in.MaxLength, Type: kind})
	out := &Output{
		Summary:        res.Summary,
		OriginalLength: res.OriginalLength,
		SummaryLength:  res.SummaryLength,
		Error:          res.Error,
		Degraded:       res.Degraded,
	}
	span.SetAttributes(
		attribute.Int("summary.original_words", res.OriginalLength),
		attribute.Int("summary.summary_words", res.SummaryLength),
	)
	if len(res.Degraded) > 0 {
		span.SetAttributes(attribute.StringSlice("summary.degraded", res.Degraded))
	}

	if s.Repo == nil {
		return out, nil
	}
	now := s.Now().UTC()
	expires := now.Add(s.TTL)
	rec := &entity.Summary{
		OriginalText:   text.Clip(in.Text, entity.MaxStoredTextRunes),
		SummaryText:    text.Clip(res.Summary, entity.MaxStoredTextRunes),
		OriginalLength: res.OriginalLength,
		SummaryLength:  res.SummaryLength,
		SummaryType:    kind,
		CreatedAt:      now,
		ExpiresAt:      &expires,
	}
	if s.Guard.Save(ctx, s.Repo.Table(), func(ctx context.Context) error { return s.Repo.Create(ctx, rec) }) {
		out.ID = rec.ID
	} else {
		out.Warning = WarningNotSaved
		span.SetAttributes(attribute.Bool("summary.saved", false))
	}
	return out, nil
}

// Get returns a stored summary. Missing and expired records yield
// entity.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Summary, error) {
	if s.Repo == nil {
		return nil, entity.ErrNotFound
	}
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if rec == nil || rec.Expired(s.Now()) {
		return nil, entity.ErrNotFound
	}
	return rec, nil
}
