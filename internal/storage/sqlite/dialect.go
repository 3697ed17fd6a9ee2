// Package sqlite registers the SQLite dialect (modernc.org/sqlite, pure Go)
// under the storage kind "sqlite". It serves local warehouses and the
// integration tests of the loader.
package sqlite

import (
	"strings"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite" // registers database/sql driver "sqlite"

	"flatload/internal/storage"
)

func init() {
	storage.Register("sqlite", Dialect{})
}

// Dialect implements storage.Dialect for SQLite. Schemas are not used: the
// catalog queries ignore the schema argument and tables live in "main".
type Dialect struct{}

func (Dialect) Name() string          { return "sqlite" }
func (Dialect) DriverName() string    { return "sqlite" }
func (Dialect) DefaultSchema() string { return "" }

func (Dialect) ValidateDSN(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return errors.New("sqlite: DSN must not be empty")
	}
	return nil
}

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (Dialect) TableExistsQuery(_, table string) (string, []any) {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", []any{table}
}

func (Dialect) ColumnsQuery(_, table string) (string, []any) {
	return "SELECT name FROM pragma_table_info(?) ORDER BY cid", []any{table}
}

// ColumnType is TEXT regardless of width; SQLite does not enforce lengths.
func (Dialect) ColumnType(int) string { return "TEXT" }

func (Dialect) GrantSelectSQL(string, string) string { return "" }

func (Dialect) DropTableSQL(fqn string) string { return "DROP TABLE IF EXISTS " + fqn }

func (d Dialect) CreateIndexSQL(name, fqn string, cols []string) string {
	return "CREATE INDEX " + d.QuoteIdent(name) + " ON " + fqn + " (" + strings.Join(cols, ", ") + ")"
}

func (Dialect) SavepointSQL(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) ReleaseSQL(name string) string    { return "RELEASE SAVEPOINT " + name }

// ClassifyIndexError matches on the message text; the driver reports these
// as generic SQLITE_ERROR.
func (Dialect) ClassifyIndexError(err error) storage.IndexErrorClass {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already exists"):
		return storage.IndexExists
	case strings.Contains(msg, "no such column"), strings.Contains(msg, "has no column named"):
		return storage.IndexBadColumn
	}
	return storage.IndexOther
}
