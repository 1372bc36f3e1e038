package sqlite

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
VALUES (?, ?, ?, ?, ?, ?, ?)`
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.CreatedAt = s.CreatedAt.UTC()
	res, err := repo.db.ExecContext(ctx, query,
		s.OriginalText, s.SummaryText, s.OriginalLength, s.SummaryLength,
		string(s.SummaryType), s.CreatedAt, utcPtr(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	s.ID = id
	return nil
}

func (repo *SummaryRepo) Get(ctx context.Context, id int64) (*entity.Summary, error) {
	const query = `
SELECT id, original_text, summary_text, original_length, summary_length, summary_type, created_at, expires_at
FROM summaries
WHERE id = ?
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

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
