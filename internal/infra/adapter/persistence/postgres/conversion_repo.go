package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"textforge/internal/domain/entity"
	"textforge/internal/repository"
)

type ConversionRepo struct {
	db *sql.DB
	retention
}

func NewConversionRepo(db *sql.DB) repository.ConversionRepository {
	return &ConversionRepo{db: db, retention: retention{db: db, table: "markdown_conversions"}}
}

func (repo *ConversionRepo) Create(ctx context.Context, c *entity.MarkdownConversion) error {
	const query = `
INSERT INTO markdown_conversions
       (original_text, converted_text, conversion_type, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	err := repo.db.QueryRowContext(ctx, query,
		c.OriginalText, c.ConvertedText, string(c.ConversionType), c.CreatedAt, c.ExpiresAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ConversionRepo) Get(ctx context.Context, id int64) (*entity.MarkdownConversion, error) {
	const query = `
SELECT id, original_text, converted_text, conversion_type, created_at, expires_at
FROM markdown_conversions
WHERE id = $1
LIMIT 1`
	var (
		c         entity.MarkdownConversion
		mode      string
		expiresAt sql.NullTime
	)
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.OriginalText, &c.ConvertedText, &mode, &c.CreatedAt, &expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	c.ConversionType = entity.ConversionMode(mode)
	if expiresAt.Valid {
		c.ExpiresAt = &expiresAt.Time
	}
	return &c, nil
}
