// Package storage contains storage-agnostic contracts for the load phase
// plus a factory keyed by backend kind. Concrete backends live in
// subpackages and register themselves at init time; callers stay
// backend-agnostic.
//
// Loading is two-phase: rows are bulk-written into a staging table
// (CopyFrom) and then published into the live table in one transaction
// (Publish). The window in which the live table is empty or partial is
// therefore confined to a single transactional swap.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Mode selects how Publish moves staged rows into the live table.
const (
	ModeReplace = "replace"
	ModeAppend  = "append"
)

// Config selects and configures a backend for one destination table.
type Config struct {
	Kind    string   // "postgres", "mysql", "mssql", "sqlite"
	DSN     string   // backend connection string
	Table   string   // live table name
	Columns []string // destination columns in load order
	Mode    string   // ModeReplace or ModeAppend
}

// Repository is the minimal sink contract used by the pipeline.
type Repository interface {
	// CopyFrom bulk-writes rows (aligned to columns order) into the staging
	// table and returns the number of rows written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Publish atomically moves all staged rows into the live table per the
	// configured mode and clears the stage.
	Publish(ctx context.Context) error

	// Exec runs a backend statement; used by the DDL bootstrappers.
	Exec(ctx context.Context, query string, args ...any) error

	// Close releases the underlying connections.
	Close()
}

// StageTable derives the staging table name for a live table.
func StageTable(table string) string { return table + "__stage" }

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. The corresponding backend package
// must have been imported (see storage/all).
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}
