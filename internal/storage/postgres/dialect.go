// Package postgres registers the PostgreSQL dialect (pgx stdlib driver)
// under the storage kind "postgres".
package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers database/sql driver "pgx"

	"flatload/internal/storage"
)

func init() {
	storage.Register("postgres", Dialect{})
}

// SQLSTATE codes met while creating indexes.
const (
	duplicateTable       = "42P07" // relation (index name) already exists
	undefinedColumn      = "42703"
	programLimitExceeded = "54000" // index row size exceeds maximum
	duplicateObject      = "42710"
)

// Dialect implements storage.Dialect for PostgreSQL.
type Dialect struct{}

func (Dialect) Name() string          { return "postgres" }
func (Dialect) DriverName() string    { return "pgx" }
func (Dialect) DefaultSchema() string { return "public" }

// ValidateDSN accepts anything pgx can parse: URLs or key=value strings.
func (Dialect) ValidateDSN(dsn string) error {
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return errors.Wrap(err, "postgres: parse dsn")
	}
	return nil
}

func (Dialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// QuoteIdent quotes a single identifier segment for Postgres, e.g.:
//
//	QuoteIdent(`pcv`)        => `"pcv"`
//	QuoteIdent(`weird"name`) => `"weird""name"`
func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (Dialect) TableExistsQuery(schema, table string) (string, []any) {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2",
		[]any{schema, table}
}

func (Dialect) ColumnsQuery(schema, table string) (string, []any) {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position",
		[]any{schema, table}
}

func (Dialect) ColumnType(width int) string { return fmt.Sprintf("VARCHAR(%d)", width) }

func (Dialect) GrantSelectSQL(fqn, principal string) string {
	if principal == "" {
		return ""
	}
	return fmt.Sprintf("GRANT SELECT ON %s TO %s", fqn, principal)
}

func (Dialect) DropTableSQL(fqn string) string { return "DROP TABLE IF EXISTS " + fqn }

func (d Dialect) CreateIndexSQL(name, fqn string, cols []string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", d.QuoteIdent(name), fqn, strings.Join(cols, ", "))
}

func (Dialect) SavepointSQL(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) ReleaseSQL(name string) string    { return "RELEASE SAVEPOINT " + name }

func (Dialect) ClassifyIndexError(err error) storage.IndexErrorClass {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return storage.IndexOther
	}
	switch pgErr.Code {
	case duplicateTable, duplicateObject:
		return storage.IndexExists
	case undefinedColumn:
		return storage.IndexBadColumn
	case programLimitExceeded:
		return storage.IndexKeyTooLong
	}
	return storage.IndexOther
}
