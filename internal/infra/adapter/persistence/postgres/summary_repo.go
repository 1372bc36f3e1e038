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

type SummaryRepo struct {
	db *sql.DB
	retention
}

func NewSummaryRepo(db *sql.DB) repository.SummaryRepository {
	return &SummaryRepo{db: db, retention: retention{db: db, table: "summaries"}}
}

func (repo *SummaryRepo) Create(ctx context.Context, s *entity.Summary) error {
	const query = `
INSERT INTO summaries
       (original_text, summary_text, original_length, summary_length, summary_type, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	err := repo.db.QueryRowContext(ctx, query,
		s.OriginalText, s.SummaryText, s.OriginalLength, s.SummaryLength,
		string(s.SummaryType), s.CreatedAt, s.ExpiresAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SummaryRepo) Get(ctx context.Context, id int64) (*entity.Summary, error) {
	const query = `
SELECT id, original_text, summary_text, original_length, summary_length, summary_type, created_at, expires_at
FROM summaries
WHERE id = $1
LIMIT 1`
	var (
		s         entity.Summary
		kind      string
		expiresAt sql.NullTime
	)
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.OriginalText, &s.SummaryText, &s.OriginalLength,
		&s.SummaryLength, &kind, &s.CreatedAt, &expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	s.SummaryType = entity.SummaryType(kind)
	if expiresAt.Valid {
		s.ExpiresAt = &expiresAt.Time
	}
	return &s, nil
}
