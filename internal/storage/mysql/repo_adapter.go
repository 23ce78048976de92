// This adapter wires the MySQL backend into the storage factory.
package mysql

import (
	"context"

	"salesetl/internal/schema"
	"salesetl/internal/storage"
	myddl "salesetl/internal/storage/mysql/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("mysql", func(ctx context.Context, repo storage.Repository, def schema.TableDef) error {
		sql, err := myddl.BuildCreateTableSQL(def)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, sql)
	})
}
