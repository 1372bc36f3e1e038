package sqlite_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"textforge/internal/domain/entity"
	"textforge/internal/infra/adapter/persistence/sqlite"
)

/* ──────────────────────────── Summary ──────────────────────────── */

func TestSummaryRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	jst := time.FixedZone("JST", 9*60*60)
	local := time.Date(2025, 7, 19, 9, 0, 0, 0, jst)
	s := &entity.Summary{
		OriginalText: "text", SummaryText: "t",
		OriginalLength: 1, SummaryLength: 1,
		SummaryType: entity.SummaryConcise, CreatedAt: local,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO summaries")).
		WithArgs("text", "t", 1, 1, "concise", local.UTC(), nil).
		WillReturnResult(sqlmock.NewResult(11, 1))

	if err := sqlite.NewSummaryRepo(db).Create(context.Background(), s); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if s.ID != 11 {
		t.Fatalf("ID = %d, want 11", s.ID)
	}
	if s.CreatedAt.Location() != time.UTC {
		t.Fatalf("CreatedAt location = %v, want UTC", s.CreatedAt.Location())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSummaryRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	expires := now.Add(5 * time.Minute)
	want := &entity.Summary{
		ID: 2, OriginalText: "x y", SummaryText: "x",
		OriginalLength: 2, SummaryLength: 1,
		SummaryType: entity.SummaryDetailed, CreatedAt: now, ExpiresAt: &expires,
	}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "original_text", "summary_text", "original_length",
			"summary_length", "summary_type", "created_at", "expires_at",
		}).AddRow(int64(2), "x y", "x", 2, 1, "detailed", now, expires))

	got, err := sqlite.NewSummaryRepo(db).Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM summaries").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := sqlite.NewSummaryRepo(db).Get(context.Background(), 1)
	if err != nil || got != nil {
		t.Fatalf("Get = %v, %v; want nil, nil", got, err)
	}
}

/* ──────────────────────────── Conversion ──────────────────────────── */

func TestConversionRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	c := &entity.MarkdownConversion{
		OriginalText: "# T", ConvertedText: "T",
		ConversionType: entity.ModeToText, CreatedAt: now, ExpiresAt: &expires,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO markdown_conversions")).
		WithArgs("# T", "T", "to_text", now, expires).
		WillReturnResult(sqlmock.NewResult(4, 1))

	if err := sqlite.NewConversionRepo(db).Create(context.Background(), c); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if c.ID != 4 {
		t.Fatalf("ID = %d, want 4", c.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────── Retention ──────────────────────────── */

func TestRetention_HasExpiryColumn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("pragma_table_info(?)")).
		WithArgs("markdown_conversions").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := sqlite.NewConversionRepo(db).HasExpiryColumn(context.Background())
	if err != nil || ok {
		t.Fatalf("HasExpiryColumn = %v, %v; want false, nil", ok, err)
	}
}

func TestRetention_BackfillExpiry(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour
	cutoff := now.Add(-ttl)
	old := now.Add(-3 * time.Hour)
	recent := now.Add(-10 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, created_at FROM summaries WHERE expires_at IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(int64(1), old).
			AddRow(int64(2), recent))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE summaries SET expires_at = ? WHERE id = ?")).
		WithArgs(now, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE summaries SET expires_at = ? WHERE id = ?")).
		WithArgs(recent.Add(ttl), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := sqlite.NewSummaryRepo(db).BackfillExpiry(context.Background(), cutoff, now, ttl)
	if err != nil {
		t.Fatalf("BackfillExpiry err=%v", err)
	}
	if n != 2 {
		t.Fatalf("updated = %d, want 2", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRetention_DeleteExpired(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM markdown_conversions WHERE expires_at IS NOT NULL")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := sqlite.NewConversionRepo(db).DeleteExpired(context.Background(), now)
	if err != nil || n != 2 {
		t.Fatalf("DeleteExpired = %d, %v; want 2, nil", n, err)
	}
}

func TestRetention_DeleteOldest(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM summaries")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1005)))
	mock.ExpectExec(regexp.QuoteMeta("LIMIT ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := sqlite.NewSummaryRepo(db).DeleteOldest(context.Background(), 1000)
	if err != nil || n != 5 {
		t.Fatalf("DeleteOldest = %d, %v; want 5, nil", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
