// Package conversion provides the markdown conversion use case.
package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel/attribute"

	"textforge/internal/domain/entity"
	"textforge/internal/observability/tracing"
	"textforge/internal/pkg/validate"
	"textforge/internal/repository"
	"textforge/internal/usecase/persist"
	"textforge/internal/utils/text"
)

// WarningNotSaved is set on Output when the conversion could not be stored.
const WarningNotSaved = "conversion completed but not saved to database"

// Converter is the markdown core.
type Converter interface {
	Convert(text string, mode entity.ConversionMode) (string, error)
}

// Input is one conversion request. Mode "" means to_markdown.
type Input struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// Validate checks the mode before the text, so an unknown mode is reported
// even for empty input.
func (in Input) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Mode, validation.By(func(v interface{}) error {
			_, err := entity.ParseConversionMode(v.(string))
			return err
		})),
		validation.Field(&in.Text, validation.By(func(v interface{}) error {
			if strings.TrimSpace(v.(string)) == "" {
				return entity.ErrEmptyInput
			}
			return nil
		})),
	)
	return validate.First(err, "mode", "text")
}

// Output is the conversion response. ID is 0 when nothing was stored.
type Output struct {
	ID      int64
	Result  string
	Warning string
}

// Service wires the converter to the conversion store. Repo may be nil.
type Service struct {
	Repo      repository.ConversionRepository
	Converter Converter
	Guard     *persist.Guard
	TTL       time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewService returns a Service with the default store guard.
func NewService(repo repository.ConversionRepository, conv Converter, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:      repo,
		Converter: conv,
		Guard:     persist.NewGuard(logger),
		TTL:       ttl,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Convert validates in, converts the text and stores the result. Converter
// failures are returned wrapped; storage failures only set Output.Warning.
func (s *Service) Convert(ctx context.Context, in Input) (*Output, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	mode, _ := entity.ParseConversionMode(in.Mode)

	ctx, span := tracing.Start(ctx, "conversion.Convert", attribute.String("conversion.mode", string(mode)))
	defer span.End()

	result, err := s.Converter.Convert(in.Text, mode)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("convert: %w", err)
	}
	out := &Output{Result: result}

	if s.Repo == nil {
		return out, nil
	}
	now := s.Now().UTC()
	expires := now.Add(s.TTL)
	rec := &entity.MarkdownConversion{
		OriginalText:   text.Clip(in.Text, entity.MaxStoredTextRunes),
		ConvertedText:  text.Clip(result, entity.MaxStoredTextRunes),
		ConversionType: mode,
		CreatedAt:      now,
		ExpiresAt:      &expires,
	}
	if s.Guard.Save(ctx, s.Repo.Table(), func(ctx context.Context) error { return s.Repo.Create(ctx, rec) }) {
		out.ID = rec.ID
	} else {
		out.Warning = WarningNotSaved
	}
	return out, nil
}

// Get returns a stored conversion. Missing and expired records yield
// entity.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.MarkdownConversion, error) {
	if s.Repo == nil {
		return nil, entity.ErrNotFound
	}
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	if rec == nil || rec.Expired(s.Now()) {
		return nil, entity.ErrNotFound
	}
	return rec, nil
}
