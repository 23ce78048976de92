// Package postgres implements a Postgres repository using pgx v5. Rows
// are COPYed into the staging table; Publish swaps them into the live
// table inside a single transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN     string   // connection string for pgxpool
	Table   string   // live table, possibly schema-qualified ("public.customers")
	Columns []string // ordered columns for COPY and INSERT
	Replace bool     // Publish replaces the live rows instead of appending
}

// Repository is a Postgres-backed sink for one destination table.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// CopyFrom bulk-copies rows into the staging table.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	n, err := r.pool.CopyFrom(ctx, splitFQN(stageName(r.cfg.Table)), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy into stage: %s (%s)", pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("copy into stage: %w", err)
	}
	return n, nil
}

// Publish moves all staged rows into the live table and clears the stage,
// all in one transaction. In replace mode the live rows are deleted first,
// so readers never observe a partially-loaded table.
func (r *Repository) Publish(ctx context.Context) error {
	live := pgFQN(r.cfg.Table)
	stage := pgFQN(stageName(r.cfg.Table))
	cols := strings.Join(mapIdent(r.cfg.Columns), ",")

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	defer tx.Rollback(ctx)

	if r.cfg.Replace {
		if _, err := tx.Exec(ctx, "DELETE FROM "+live); err != nil {
			return fmt.Errorf("clear live: %w", err)
		}
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", live, cols, cols, stage)
	if _, err := tx.Exec(ctx, insert); err != nil {
		return fmt.Errorf("publish insert: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM "+stage); err != nil {
		return fmt.Errorf("clear stage: %w", err)
	}
	return tx.Commit(ctx)
}

// Exec runs a statement outside the publish transaction (DDL, mostly).
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func stageName(table string) string { return table + "__stage" }

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.customers"
// to "public"."customers".
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts "schema.table" into a pgx.Identifier.
func splitFQN(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

// mapIdent maps a list of column names to their quoted forms.
func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgIdent(c)
	}
	return out
}
