package repository

import (
	"context"

	"textforge/internal/domain/entity"
)

type SummaryRepository interface {
	// Create inserts s and sets s.ID and s.CreatedAt.
	Create(ctx context.Context, s *entity.Summary) error
	// Get returns nil, nil when no row has the id.
	Get(ctx context.Context, id int64) (*entity.Summary, error)
	RetentionStore
}

type ConversionRepository interface {
	Create(ctx context.Context, c *entity.MarkdownConversion) error
	Get(ctx context.Context, id int64) (*entity.MarkdownConversion, error)
	RetentionStore
}
