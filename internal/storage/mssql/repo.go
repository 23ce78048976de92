// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API. Rows are bulk-copied into the staging table;
// Publish swaps them into the live table inside one transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN     string
	Table   string   // live table, possibly schema-qualified ("dbo.customers")
	Columns []string // ordered destination columns
	Replace bool     // Publish replaces the live rows instead of appending
}

// Repository is an MSSQL-backed sink for one destination table.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository constructs a Repository and returns a Close function.
// The DSN is parsed up front to fail fast on obvious mistakes.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mssql: ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CopyFrom bulk-copies rows into the staging table.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mssql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(stageName(r.cfg.Table), mssql.BulkOptions{}, columns...))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mssql: prepare bulk: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, fmt.Errorf("mssql: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, fmt.Errorf("mssql: bulk row %d: %w", i, err)
		}
	}
	// The final Exec with no args finalizes the bulk copy and reports the
	// number of copied rows.
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return 0, fmt.Errorf("mssql: bulk finalize: %w", err)
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mssql: close bulk stmt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return int64(len(rows)), nil
	}
	return n, nil
}

// Publish moves staged rows into the live table and clears the stage in
// one transaction.
func (r *Repository) Publish(ctx context.Context) error {
	live := msFQN(r.cfg.Table)
	stage := msFQN(stageName(r.cfg.Table))
	cols := identList(r.cfg.Columns)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mssql: begin publish: %w", err)
	}
	defer tx.Rollback()

	if r.cfg.Replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+live); err != nil {
			return fmt.Errorf("mssql: clear live: %w", err)
		}
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", live, cols, cols, stage)
	if _, err := tx.ExecContext(ctx, insert); err != nil {
		return fmt.Errorf("mssql: publish insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+stage); err != nil {
		return fmt.Errorf("mssql: clear stage: %w", err)
	}
	return tx.Commit()
}

// Exec runs a statement (DDL, mostly).
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func stageName(table string) string { return table + "__stage" }

// msIdent quotes a single identifier segment with brackets.
func msIdent(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// msFQN quotes a possibly schema-qualified name like "dbo.customers".
func msFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = msIdent(p)
	}
	return strings.Join(parts, ".")
}

func identList(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = msIdent(c)
	}
	return strings.Join(out, ", ")
}
