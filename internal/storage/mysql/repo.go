// Package mysql implements a MySQL repository using database/sql and the
// go-sql-driver driver. Rows are written to the staging table with
// multi-row INSERTs; Publish swaps them into the live table inside one
// transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN     string   // go-sql-driver DSN, e.g. "user:pass@tcp(host:3306)/sales?parseTime=true"
	Table   string   // live table name
	Columns []string // ordered destination columns
	Replace bool     // Publish replaces the live rows instead of appending
}

// Repository is a MySQL-backed sink for one destination table.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a MySQL connection pool and returns a Repository
// plus a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CopyFrom inserts rows into the staging table with a single multi-row
// INSERT per call. Callers control batch size upstream, keeping the
// statement under MySQL's packet limit for any sane batch.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ",
		ident(stageName(r.cfg.Table)), identList(columns))

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mysql: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(tuple)
		args = append(args, row...)
	}

	res, err := r.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("mysql: insert into stage: %w", err)
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
	live := ident(r.cfg.Table)
	stage := ident(stageName(r.cfg.Table))
	cols := identList(r.cfg.Columns)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mysql: begin publish: %w", err)
	}
	defer tx.Rollback()

	if r.cfg.Replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+live); err != nil {
			return fmt.Errorf("mysql: clear live: %w", err)
		}
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", live, cols, cols, stage)
	if _, err := tx.ExecContext(ctx, insert); err != nil {
		return fmt.Errorf("mysql: publish insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+stage); err != nil {
		return fmt.Errorf("mysql: clear stage: %w", err)
	}
	return tx.Commit()
}

// Exec runs a statement (DDL, mostly).
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func stageName(table string) string { return table + "__stage" }

// ident quotes a MySQL identifier with backticks.
func ident(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

func identList(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = ident(c)
	}
	return strings.Join(out, ", ")
}
