// Package storage is the database boundary of the loader: a per-engine
// Dialect that renders the handful of statements the loader needs, and a
// Session that owns the one connection and transaction of a run.
//
// Backends register their Dialect under a storage kind (e.g. "oracle",
// "postgres") from an init function; importing storage/all enables every
// built-in backend.
package storage

import (
	"sort"
	"strings"
	"sync"

	"github.com/go-faster/errors"
)

// ErrUnknownKind is returned by Lookup for an unregistered storage kind.
var ErrUnknownKind = errors.New("unknown storage kind")

// IndexErrorClass classifies a failed CREATE INDEX.
type IndexErrorClass int

const (
	// IndexOther is any failure the dialect does not recognise.
	IndexOther IndexErrorClass = iota
	// IndexExists: an index (or object) with that name already exists.
	IndexExists
	// IndexDuplicateColumns: the column list is already indexed.
	IndexDuplicateColumns
	// IndexKeyTooLong: the key exceeds the engine's maximum key length.
	IndexKeyTooLong
	// IndexBadColumn: a listed column does not exist.
	IndexBadColumn
)

func (c IndexErrorClass) String() string {
	switch c {
	case IndexExists:
		return "exists"
	case IndexDuplicateColumns:
		return "duplicate_columns"
	case IndexKeyTooLong:
		return "key_too_long"
	case IndexBadColumn:
		return "bad_column"
	default:
		return "other"
	}
}

// Benign reports whether the failure means the index is already in place.
func (c IndexErrorClass) Benign() bool {
	return c == IndexExists || c == IndexDuplicateColumns
}

// Dialect renders engine-specific SQL. Every method is pure.
type Dialect interface {
	// Name is the storage kind the dialect registers under.
	Name() string
	// DriverName is the database/sql driver name.
	DriverName() string
	// ValidateDSN checks a connection string without connecting.
	ValidateDSN(dsn string) error
	// DefaultSchema is used when the configuration names none.
	DefaultSchema() string

	// Placeholder returns the bind marker for the 1-based argument n.
	Placeholder(n int) string
	// QuoteIdent quotes one identifier segment.
	QuoteIdent(id string) string

	// TableExistsQuery returns a catalog query yielding one row when the
	// table exists in schema.
	TableExistsQuery(schema, table string) (string, []any)
	// ColumnsQuery returns a catalog query yielding the table's column
	// names, one per row, in definition order.
	ColumnsQuery(schema, table string) (string, []any)

	// ColumnType returns the string column type for a width.
	ColumnType(width int) string
	// GrantSelectSQL grants read access; empty when the engine has no grants.
	GrantSelectSQL(fqn, principal string) string
	// DropTableSQL drops a table.
	DropTableSQL(fqn string) string
	// CreateIndexSQL creates a (composite) index; cols are already quoted.
	CreateIndexSQL(name, fqn string, cols []string) string
	// SavepointSQL and RollbackToSQL bracket partial work in a transaction.
	SavepointSQL(name string) string
	RollbackToSQL(name string) string
	// ReleaseSQL drops a savepoint once its work is kept. Empty when the
	// engine has no release statement and reusing the name replaces it.
	ReleaseSQL(name string) string

	// ClassifyIndexError maps a CREATE INDEX failure to a class.
	ClassifyIndexError(err error) IndexErrorClass
}

var (
	dialectMu sync.RWMutex
	dialects  = map[string]Dialect{}
)

// Register registers (or replaces) the dialect for a storage kind. It is
// typically called from backend packages' init() functions.
func Register(kind string, d Dialect) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	dialects[strings.ToLower(kind)] = d
}

// Lookup returns the dialect registered for kind.
func Lookup(kind string) (Dialect, error) {
	dialectMu.RLock()
	d, ok := dialects[strings.ToLower(strings.TrimSpace(kind))]
	dialectMu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "storage.kind=%q", kind)
	}
	return d, nil
}

// Kinds returns the registered storage kinds, sorted.
func Kinds() []string {
	dialectMu.RLock()
	defer dialectMu.RUnlock()
	out := make([]string, 0, len(dialects))
	for k := range dialects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// QualifiedName renders schema.table with d's quoting. An empty schema
// yields the bare quoted table.
func QualifiedName(d Dialect, schema, table string) string {
	if strings.TrimSpace(schema) == "" {
		return d.QuoteIdent(table)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

// Placeholders returns n bind markers starting at argument from (1-based),
// joined with ", ".
func Placeholders(d Dialect, from, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.Placeholder(from + i)
	}
	return strings.Join(ph, ", ")
}

// QuoteAll quotes every identifier in ids.
func QuoteAll(d Dialect, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.QuoteIdent(id)
	}
	return out
}
