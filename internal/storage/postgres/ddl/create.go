// Package ddl contains Postgres-specific helpers for rendering table
// contracts into DDL.
package ddl

import (
	"fmt"
	"strings"

	"salesetl/internal/schema"
)

// MapType renders a contract column kind as a Postgres SQL type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int":
		return "BIGINT"
	case "date":
		return "DATE"
	case "money":
		return "NUMERIC(12,2)"
	default:
		return "TEXT"
	}
}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for def.
// Referential integrity between datasets is enforced in memory before
// load, so no FOREIGN KEY clause is emitted.
func BuildCreateTableSQL(def schema.TableDef) (string, error) {
	if def.Name == "" || len(def.Columns) == 0 {
		return "", fmt.Errorf("table definition incomplete")
	}
	parts := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		p := quoteFQN(c.Name) + " " + MapType(c.Kind)
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
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteFQN(def.Name), strings.Join(parts, ", ")), nil
}

func quoteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
