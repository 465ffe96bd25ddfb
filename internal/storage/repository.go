// Package storage keeps a local sqlite archive of emitted state-year
// summaries, so successive runs can be compared without re-fetching exports.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"awardstats/internal/aggregate"
	"awardstats/internal/core"

	_ "modernc.org/sqlite"
)

// archivedCategories is every category a summary row is stored under,
// AllRecipients included.
var archivedCategories = []core.Category{
	core.AllRecipients,
	core.SmallBusiness,
	core.WomanOwned,
	core.MinorityOwned,
	core.Educational,
	core.StateUniversity,
	core.HBCU,
	core.NonProfit,
	core.Grant,
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ArchiveStateSummary upserts one closed state-year summary, one row per
// category. Re-running a fiscal year replaces the previous figures.
// Implements services.SummaryArchiver.
func (r *SQLiteRepository) ArchiveStateSummary(ctx context.Context, fiscalYear int, state string, t aggregate.Totals) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO state_summaries (fiscal_year, state, category, recipients, obligations)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (fiscal_year, state, category)
		DO UPDATE SET recipients = excluded.recipients,
		              obligations = excluded.obligations,
		              created_at = CURRENT_TIMESTAMP`

	for _, cat := range archivedCategories {
		_, err := tx.ExecContext(ctx, upsert,
			fiscalYear, state, string(cat), t.Recipients[cat], t.Obligations[cat])
		if err != nil {
			return fmt.Errorf("archive %s %s FY%d: %w", state, cat, fiscalYear, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}

	slog.DebugContext(ctx, "State summary archived",
		"state", state, "fiscal_year", fiscalYear,
		"recipients", t.Recipients[core.AllRecipients])
	return nil
}

// CategoryFigures is one archived (recipients, obligations) pair.
type CategoryFigures struct {
	Recipients  int
	Obligations int64
}

// GetStateSummary reads back an archived state-year summary keyed by
// category. Returns an empty map when the state-year was never archived.
func (r *SQLiteRepository) GetStateSummary(ctx context.Context, fiscalYear int, state string) (map[core.Category]CategoryFigures, error) {
	const query = `
		SELECT category, recipients, obligations
		FROM state_summaries
		WHERE fiscal_year = ? AND state = ?`

	rows, err := r.db.QueryContext(ctx, query, fiscalYear, state)
	if err != nil {
		return nil, fmt.Errorf("query summary %s FY%d: %w", state, fiscalYear, err)
	}
	defer rows.Close()

	out := make(map[core.Category]CategoryFigures)
	for rows.Next() {
		var cat string
		var fig CategoryFigures
		if err := rows.Scan(&cat, &fig.Recipients, &fig.Obligations); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		out[core.Category(cat)] = fig
	}
	return out, rows.Err()
}
