// Package mssql registers the SQL Server dialect (go-mssqldb) under the
// storage kind "mssql".
package mssql

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"flatload/internal/storage"
)

func init() {
	storage.Register("mssql", Dialect{})
}

// SQL Server error numbers met while creating indexes.
const (
	errIndexExists  = 1913 // operation failed because an index or statistics with name already exists
	errBadColumn    = 1911 // column name does not exist in the target table or view
	errKeyTooLong   = 1946 // index key exceeds the maximum length
	errKeyTooLong2  = 1944 // index was not created; key length exceeds maximum
	errObjectExists = 2714 // there is already an object named ... in the database
)

// Dialect implements storage.Dialect for SQL Server.
type Dialect struct{}

func (Dialect) Name() string          { return "mssql" }
func (Dialect) DriverName() string    { return "sqlserver" }
func (Dialect) DefaultSchema() string { return "dbo" }

// ValidateDSN parses dsn the way the driver will.
func (Dialect) ValidateDSN(dsn string) error {
	if _, err := msdsn.Parse(dsn); err != nil {
		return errors.Wrap(err, "mssql: parse dsn")
	}
	return nil
}

func (Dialect) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }

// QuoteIdent quotes a single identifier segment using bracket syntax,
// escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func (Dialect) QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

func (Dialect) TableExistsQuery(schema, table string) (string, []any) {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2",
		[]any{schema, table}
}

func (Dialect) ColumnsQuery(schema, table string) (string, []any) {
	return "SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION",
		[]any{schema, table}
}

// ColumnType uses NVARCHAR(MAX) past the 4000-character NVARCHAR limit.
func (Dialect) ColumnType(width int) string {
	if width > 4000 {
		return "NVARCHAR(MAX)"
	}
	return fmt.Sprintf("NVARCHAR(%d)", width)
}

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

func (Dialect) SavepointSQL(name string) string  { return "SAVE TRANSACTION " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TRANSACTION " + name }

// ReleaseSQL is empty: T-SQL savepoints live until the transaction ends.
func (Dialect) ReleaseSQL(string) string { return "" }

func (Dialect) ClassifyIndexError(err error) storage.IndexErrorClass {
	var number int32
	var me mssql.Error
	var mp *mssql.Error
	switch {
	case errors.As(err, &me):
		number = me.Number
	case errors.As(err, &mp):
		number = mp.Number
	default:
		return storage.IndexOther
	}
	switch number {
	case errIndexExists, errObjectExists:
		return storage.IndexExists
	case errBadColumn:
		return storage.IndexBadColumn
	case errKeyTooLong, errKeyTooLong2:
		return storage.IndexKeyTooLong
	}
	return storage.IndexOther
}
