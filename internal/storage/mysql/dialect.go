// Package mysql registers the MySQL dialect (go-sql-driver) under the
// storage kind "mysql".
package mysql

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-sql-driver/mysql"

	"flatload/internal/storage"
)

func init() {
	storage.Register("mysql", Dialect{})
}

// MySQL error numbers met while creating indexes.
const (
	erDupKeyName       = 1061
	erTooLongKey       = 1071
	erKeyColumnMissing = 1072
	erBlobKeyNoLength  = 1170
)

// maxVarchar is the widest column kept as VARCHAR; wider ones become TEXT so
// a table of many wide columns stays under the row size limit.
const maxVarchar = 255

// Dialect implements storage.Dialect for MySQL.
type Dialect struct{}

func (Dialect) Name() string       { return "mysql" }
func (Dialect) DriverName() string { return "mysql" }

// DefaultSchema is empty: catalog queries fall back to DATABASE().
func (Dialect) DefaultSchema() string { return "" }

func (Dialect) ValidateDSN(dsn string) error {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return errors.Wrap(err, "mysql: parse dsn")
	}
	return nil
}

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

func (Dialect) TableExistsQuery(schema, table string) (string, []any) {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?",
		[]any{schema, table}
}

func (Dialect) ColumnsQuery(schema, table string) (string, []any) {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ? ORDER BY ordinal_position",
		[]any{schema, table}
}

func (Dialect) ColumnType(width int) string {
	if width > maxVarchar {
		return "TEXT"
	}
	return fmt.Sprintf("VARCHAR(%d)", width)
}

// GrantSelectSQL is empty: MySQL has no PUBLIC role to grant to.
func (Dialect) GrantSelectSQL(string, string) string { return "" }

func (Dialect) DropTableSQL(fqn string) string { return "DROP TABLE IF EXISTS " + fqn }

func (d Dialect) CreateIndexSQL(name, fqn string, cols []string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", d.QuoteIdent(name), fqn, strings.Join(cols, ", "))
}

func (Dialect) SavepointSQL(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) ReleaseSQL(name string) string    { return "RELEASE SAVEPOINT " + name }

func (Dialect) ClassifyIndexError(err error) storage.IndexErrorClass {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return storage.IndexOther
	}
	switch me.Number {
	case erDupKeyName:
		return storage.IndexExists
	case erTooLongKey, erBlobKeyNoLength:
		return storage.IndexKeyTooLong
	case erKeyColumnMissing:
		return storage.IndexBadColumn
	}
	return storage.IndexOther
}
