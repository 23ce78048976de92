package storage

import (
	"context"
	"errors"
	"testing"

	"salesetl/internal/schema"
)

type stubRepo struct{ execs []string }

func (s *stubRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (s *stubRepo) Publish(ctx context.Context) error { return nil }
func (s *stubRepo) Exec(ctx context.Context, query string, args ...any) error {
	s.execs = append(s.execs, query)
	return nil
}
func (s *stubRepo) Close() {}

func TestNewUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "oracle"})
	if err == nil {
		t.Fatal("New with unregistered kind succeeded")
	}
}

func TestRegisterAndNew(t *testing.T) {
	want := &stubRepo{}
	Register("stub-kind", func(ctx context.Context, cfg Config) (Repository, error) {
		return want, nil
	})

	got, err := New(context.Background(), Config{Kind: "stub-kind"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got != Repository(want) {
		t.Fatalf("New returned %v, want the registered stub", got)
	}
}

func TestStageTable(t *testing.T) {
	t.Parallel()

	if got := StageTable("orders"); got != "orders__stage" {
		t.Fatalf("StageTable = %q, want orders__stage", got)
	}
}

// TestEnsureTables checks that both the live table and an unconstrained
// staging twin are bootstrapped.
func TestEnsureTables(t *testing.T) {
	var defs []schema.TableDef
	RegisterDDL("stub-kind-ddl", func(ctx context.Context, repo Repository, def schema.TableDef) error {
		defs = append(defs, def)
		return nil
	})

	repo := &stubRepo{}
	def := schema.CustomersTable("customers")
	if err := EnsureTables(context.Background(), "stub-kind-ddl", repo, def); err != nil {
		t.Fatalf("EnsureTables: %v", err)
	}

	if len(defs) != 2 {
		t.Fatalf("bootstrapped %d defs, want 2", len(defs))
	}
	if defs[0].Name != "customers" || defs[1].Name != "customers__stage" {
		t.Fatalf("bootstrapped %q then %q, want customers then customers__stage", defs[0].Name, defs[1].Name)
	}
	for _, c := range defs[1].Columns {
		if c.PrimaryKey || c.Unique || c.Required || c.References != "" {
			t.Fatalf("stage column %q kept constraints: %+v", c.Name, c)
		}
	}
	// The live contract must not be mutated by the stage derivation.
	if !def.Columns[0].PrimaryKey {
		t.Fatal("live contract lost its primary key")
	}
}

func TestEnsureTablesUnknownKind(t *testing.T) {
	t.Parallel()

	err := EnsureTables(context.Background(), "nope", &stubRepo{}, schema.CustomersTable("customers"))
	if err == nil {
		t.Fatal("EnsureTables with unregistered kind succeeded")
	}
}

func TestEnsureTablesPropagatesBootstrapError(t *testing.T) {
	boom := errors.New("ddl failed")
	RegisterDDL("stub-kind-err", func(ctx context.Context, repo Repository, def schema.TableDef) error {
		return boom
	})

	err := EnsureTables(context.Background(), "stub-kind-err", &stubRepo{}, schema.CustomersTable("customers"))
	if !errors.Is(err, boom) {
		t.Fatalf("EnsureTables error = %v, want wrapped ddl failure", err)
	}
}
