// Package ddl renders table contracts into SQLite DDL.
package ddl

import (
	"fmt"
	"strings"

	"salesetl/internal/schema"
)

// MapType renders a contract column kind as a SQLite type. Dates and
// money amounts are stored as TEXT (ISO date, fixed-point decimal).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int":
		return "INTEGER"
	case "money":
		return "NUMERIC"
	default:
		return "TEXT"
	}
}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for def.
func BuildCreateTableSQL(def schema.TableDef) (string, error) {
	if def.Name == "" || len(def.Columns) == 0 {
		return "", fmt.Errorf("table definition incomplete")
	}
	parts := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		p := c.Name + " " + MapType(c.Kind)
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
		def.Name, strings.Join(parts, ", ")), nil
}
