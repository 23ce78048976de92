// This adapter wires the Postgres backend into the storage-agnostic
// factory by registering a constructor and a DDL bootstrapper at init
// time. Callers obtain a Repository via storage.New without importing
// this package directly.
package postgres

import (
	"context"

	"salesetl/internal/schema"
	"salesetl/internal/storage"
	pgddl "salesetl/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
			Replace: cfg.Mode != storage.ModeAppend,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres", func(ctx context.Context, repo storage.Repository, def schema.TableDef) error {
		sql, err := pgddl.BuildCreateTableSQL(def)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, sql)
	})
}
