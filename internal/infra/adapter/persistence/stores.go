// Package persistence picks the repository implementations for a database
// dialect.
package persistence

import (
	"database/sql"
	"fmt"

	"textforge/internal/infra/adapter/persistence/postgres"
	"textforge/internal/infra/adapter/persistence/sqlite"
	"textforge/internal/infra/db"
	"textforge/internal/repository"
)

// Repositories holds one repository per stored table.
type Repositories struct {
	Summaries   repository.SummaryRepository
	Conversions repository.ConversionRepository
}

// NewRepositories returns the repositories for dialect.
func NewRepositories(conn *sql.DB, dialect db.Dialect) (*Repositories, error) {
	switch dialect {
	case db.Postgres:
		return &Repositories{
			Summaries:   postgres.NewSummaryRepo(conn),
			Conversions: postgres.NewConversionRepo(conn),
		}, nil
	case db.SQLite:
		return &Repositories{
			Summaries:   sqlite.NewSummaryRepo(conn),
			Conversions: sqlite.NewConversionRepo(conn),
		}, nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", dialect)
}

// RetentionStores lists the tables the cleanup job manages.
func (r *Repositories) RetentionStores() []repository.RetentionStore {
	return []repository.RetentionStore{r.Summaries, r.Conversions}
}
