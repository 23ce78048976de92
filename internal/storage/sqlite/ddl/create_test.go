package ddl

import (
	"testing"

	"salesetl/internal/schema"
)

// TestMapType checks the contract-kind to SQLite type mapping. SQLite has
// no date type, so dates fall through to TEXT.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{kind: "int", want: "INTEGER"},
		{kind: "money", want: "NUMERIC"},
		{kind: "date", want: "TEXT"},
		{kind: "text", want: "TEXT"},
		{kind: "", want: "TEXT"},
	}

	for _, tt := range tests {
		if got := MapType(tt.kind); got != tt.want {
			t.Errorf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	sql, err := BuildCreateTableSQL(schema.CustomersTable("customers"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS customers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL UNIQUE, join_date TEXT NOT NULL)"
	if sql != want {
		t.Fatalf("customers DDL = %q, want %q", sql, want)
	}
}

func TestBuildCreateTableSQLErrors(t *testing.T) {
	t.Parallel()

	for _, def := range []schema.TableDef{
		{},
		{Name: "orders"},
		{Columns: []schema.Column{{Name: "id", Kind: "int"}}},
	} {
		if _, err := BuildCreateTableSQL(def); err == nil {
			t.Errorf("BuildCreateTableSQL(%+v) expected error", def)
		}
	}
}
