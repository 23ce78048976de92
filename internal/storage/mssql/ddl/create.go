// Package ddl contains SQL Server-specific helpers for rendering table
// contracts into DDL.
package ddl

import (
	"fmt"
	"strings"

	"salesetl/internal/schema"
)

// MapType renders a contract column kind as a SQL Server type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int":
		return "BIGINT"
	case "date":
		return "DATE"
	case "money":
		return "DECIMAL(12,2)"
	default:
		return "NVARCHAR(255)"
	}
}

// BuildCreateTableSQL renders a guarded CREATE TABLE for def. SQL Server
// has no CREATE TABLE IF NOT EXISTS, so the statement is wrapped in an
// OBJECT_ID existence check. Referential integrity between datasets is
// enforced in memory before load, so no FOREIGN KEY clause is emitted.
func BuildCreateTableSQL(def schema.TableDef) (string, error) {
	if def.Name == "" || len(def.Columns) == 0 {
		return "", fmt.Errorf("table definition incomplete")
	}
	parts := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		p := quoteIdent(c.Name) + " " + MapType(c.Kind)
		if c.PrimaryKey {
			p += " PRIMARY KEY"
		} else {
			if c.Required {
				p += " NOT NULL"
			}
			if c.Unique {
				p += " UNIQUE"
			}
		}
		parts = append(parts, p)
	}
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		strings.ReplaceAll(def.Name, "'", "''"),
		quoteFQN(def.Name),
		strings.Join(parts, ", "),
	), nil
}

func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

func quoteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quoteIdent(p)
	}
	return strings.Join(parts, ".")
}
