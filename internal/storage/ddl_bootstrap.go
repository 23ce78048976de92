package storage

import (
	"context"
	"fmt"
	"sync"

	"salesetl/internal/schema"
)

// DDLBootstrapper is a backend-specific function that renders a table
// contract into DDL and applies it via repo.Exec. Each backend registers
// its implementation at init time alongside its repository factory.
type DDLBootstrapper func(ctx context.Context, repo Repository, def schema.TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for a backend kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTables creates the live table for def plus its staging twin, if
// absent. The stage carries the same columns but no uniqueness
// constraints, so a failed run never leaves constraints blocking a retry.
func EnsureTables(ctx context.Context, kind string, repo Repository, def schema.TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for kind=%q", kind)
	}
	if err := fn(ctx, repo, def); err != nil {
		return fmt.Errorf("ensure %s: %w", def.Name, err)
	}
	if err := fn(ctx, repo, stageDef(def)); err != nil {
		return fmt.Errorf("ensure %s: %w", StageTable(def.Name), err)
	}
	return nil
}

// stageDef strips constraints from a table contract and renames it to the
// staging twin.
func stageDef(def schema.TableDef) schema.TableDef {
	cols := make([]schema.Column, len(def.Columns))
	for i, c := range def.Columns {
		c.PrimaryKey = false
		c.Unique = false
		c.Required = false
		c.References = ""
		cols[i] = c
	}
	return schema.TableDef{Name: StageTable(def.Name), Columns: cols}
}
