// Package ddl renders table contracts into MySQL DDL.
package ddl

import (
	"fmt"
	"strings"

	"salesetl/internal/schema"
)

// MapType renders a contract column kind as a MySQL type. Email and name
// columns use VARCHAR(255) so UNIQUE indexes stay within key limits.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int":
		return "BIGINT"
	case "date":
		return "DATE"
	case "money":
		return "DECIMAL(12,2)"
	default:
		return "VARCHAR(255)"
	}
}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for def.
func BuildCreateTableSQL(def schema.TableDef) (string, error) {
	if def.Name == "" || len(def.Columns) == 0 {
		return "", fmt.Errorf("table definition incomplete")
	}
	parts := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		p := ident(c.Name) + " " + MapType(c.Kind)
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
		ident(def.Name), strings.Join(parts, ", ")), nil
}

func ident(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
