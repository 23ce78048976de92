// Package sqlite implements a SQLite-backed repository using
// database/sql. SQLite has no bulk-load API like Postgres COPY, but
// batched INSERTs inside a transaction keep performance acceptable for
// the bounded batches this pipeline handles.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Config holds SQLite repository configuration.
type Config struct {
	DSN     string   // passed to database/sql, e.g. "file:sales.db" or "sales.db"
	Table   string   // live table name
	Columns []string // ordered destination columns
	Replace bool     // Publish replaces the live rows instead of appending
}

// Repository is a SQLite-backed sink for one destination table.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection and returns a Repository plus a
// Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CopyFrom inserts rows into the staging table using a single transaction
// and a prepared statement.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		stageName(r.cfg.Table), strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert row %d: %w", i, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Publish moves staged rows into the live table and clears the stage in
// one transaction.
func (r *Repository) Publish(ctx context.Context) error {
	cols := strings.Join(r.cfg.Columns, ", ")
	stage := stageName(r.cfg.Table)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin publish: %w", err)
	}
	defer tx.Rollback()

	if r.cfg.Replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+r.cfg.Table); err != nil {
			return fmt.Errorf("sqlite: clear live: %w", err)
		}
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", r.cfg.Table, cols, cols, stage)
	if _, err := tx.ExecContext(ctx, insert); err != nil {
		return fmt.Errorf("sqlite: publish insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+stage); err != nil {
		return fmt.Errorf("sqlite: clear stage: %w", err)
	}
	return tx.Commit()
}

// Exec runs a statement (DDL, mostly).
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func stageName(table string) string { return table + "__stage" }
