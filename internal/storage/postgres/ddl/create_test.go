package ddl

import (
	"strings"
	"testing"

	"salesetl/internal/schema"
)

// TestQuoteFQN verifies quoting and escaping for plain and schema-qualified
// names.
func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple table", in: "customers", want: `"customers"`},
		{name: "schema and table", in: "public.customers", want: `"public"."customers"`},
		{name: "with double quote", in: `weird"name`, want: `"weird""name"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := quoteFQN(tt.in)
			if got != tt.want {
				t.Fatalf("quoteFQN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestMapType checks the contract-kind to Postgres type mapping.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{kind: "int", want: "BIGINT"},
		{kind: "date", want: "DATE"},
		{kind: "money", want: "NUMERIC(12,2)"},
		{kind: "text", want: "TEXT"},
		{kind: " Int ", want: "BIGINT"},
		{kind: "unknown", want: "TEXT"},
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
	want := `CREATE TABLE IF NOT EXISTS "customers" ("id" BIGINT PRIMARY KEY, "name" TEXT NOT NULL, "email" TEXT NOT NULL UNIQUE, "join_date" DATE NOT NULL)`
	if sql != want {
		t.Fatalf("customers DDL = %q, want %q", sql, want)
	}

	sql, err = BuildCreateTableSQL(schema.OrdersTable("orders", "customers"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if strings.Contains(sql, "FOREIGN KEY") || strings.Contains(sql, "REFERENCES") {
		t.Fatalf("orders DDL must not emit a foreign key, got %q", sql)
	}
	if !strings.Contains(sql, `"total_amount" NUMERIC(12,2) NOT NULL`) {
		t.Fatalf("orders DDL missing money column, got %q", sql)
	}
}

func TestBuildCreateTableSQLErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  schema.TableDef
	}{
		{name: "empty def", def: schema.TableDef{}},
		{name: "missing name", def: schema.TableDef{Columns: []schema.Column{{Name: "id", Kind: "int"}}}},
		{name: "no columns", def: schema.TableDef{Name: "customers"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := BuildCreateTableSQL(tt.def); err == nil {
				t.Fatalf("BuildCreateTableSQL(%+v) expected error", tt.def)
			}
		})
	}
}
