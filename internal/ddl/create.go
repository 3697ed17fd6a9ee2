// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE statements from that model.
//
// The package does not quote identifiers itself: TableDef.FQN and
// ColumnDef.Name are emitted as-is, so callers pass names already rendered by
// their storage.Dialect. No statement terminator is emitted; some drivers
// (go-ora among them) reject a trailing semicolon.
package ddl

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// Rules:
//
//   - t.FQN must be non-empty; it is emitted verbatim as the table name.
//
//   - Each column must have a non-empty Name and SQLType.
//
//   - A column is rendered as:
//
//     <Name> <SQLType> [NOT NULL]
//
//     where NOT NULL is added when Nullable == false.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", errors.New("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", errors.New("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", errors.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", errors.Errorf("ddl: column %s missing SQLType", name)
		}

		def := name + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", fqn, strings.Join(cols, ",\n  ")), nil
}

// IndexName returns the conventional name of a composite index:
// <TABLE>_<COL1>_..._IDX, upper-cased.
func IndexName(table string, cols []string) string {
	parts := make([]string, 0, len(cols)+2)
	parts = append(parts, table)
	parts = append(parts, cols...)
	parts = append(parts, "IDX")
	return strings.ToUpper(strings.Join(parts, "_"))
}
