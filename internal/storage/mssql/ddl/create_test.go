package ddl

import (
	"strings"
	"testing"

	"salesetl/internal/schema"
)

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple table", in: "customers", want: "[customers]"},
		{name: "schema and table", in: "dbo.customers", want: "[dbo].[customers]"},
		{name: "with bracket", in: "weird]name", want: "[weird]]name]"},
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

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{kind: "int", want: "BIGINT"},
		{kind: "date", want: "DATE"},
		{kind: "money", want: "DECIMAL(12,2)"},
		{kind: "text", want: "NVARCHAR(255)"},
		{kind: "other", want: "NVARCHAR(255)"},
	}

	for _, tt := range tests {
		if got := MapType(tt.kind); got != tt.want {
			t.Errorf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	sql, err := BuildCreateTableSQL(schema.CustomersTable("dbo.customers"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if !strings.HasPrefix(sql, "IF OBJECT_ID(N'dbo.customers', N'U') IS NULL CREATE TABLE [dbo].[customers] (") {
		t.Fatalf("unexpected DDL prefix: %q", sql)
	}
	if !strings.Contains(sql, "[email] NVARCHAR(255) NOT NULL UNIQUE") {
		t.Fatalf("customers DDL missing unique email column, got %q", sql)
	}
	if strings.Contains(sql, "FOREIGN KEY") {
		t.Fatalf("DDL must not emit a foreign key, got %q", sql)
	}

	if _, err := BuildCreateTableSQL(schema.TableDef{Name: "t"}); err == nil {
		t.Fatal("BuildCreateTableSQL(no columns) expected error")
	}
}
