package storage

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatload/internal/loaderr"
)

// stubDialect renders plain ANSI-ish SQL for statement-level expectations.
type stubDialect struct{}

func (stubDialect) Name() string                      { return "stub" }
func (stubDialect) DriverName() string                { return "stub" }
func (stubDialect) ValidateDSN(string) error          { return nil }
func (stubDialect) DefaultSchema() string             { return "main" }
func (stubDialect) Placeholder(n int) string          { return "$" + strconv.Itoa(n) }
func (stubDialect) QuoteIdent(id string) string       { return `"` + id + `"` }
func (stubDialect) ColumnType(int) string             { return "TEXT" }
func (stubDialect) GrantSelectSQL(_, _ string) string { return "" }
func (stubDialect) DropTableSQL(fqn string) string    { return "DROP TABLE " + fqn }
func (stubDialect) SavepointSQL(n string) string      { return "SAVEPOINT " + n }
func (stubDialect) RollbackToSQL(n string) string     { return "ROLLBACK TO SAVEPOINT " + n }
func (stubDialect) ReleaseSQL(n string) string        { return "RELEASE SAVEPOINT " + n }
func (stubDialect) CreateIndexSQL(name, fqn string, cols []string) string {
	return "CREATE INDEX " + name + " ON " + fqn
}
func (stubDialect) TableExistsQuery(_, table string) (string, []any) {
	return "SELECT name FROM tables WHERE name = $1", []any{table}
}
func (stubDialect) ColumnsQuery(_, table string) (string, []any) {
	return "SELECT name FROM columns WHERE table_name = $1", []any{table}
}
func (stubDialect) ClassifyIndexError(error) IndexErrorClass { return IndexOther }

func newMockSession(t *testing.T) (*Session, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	s, err := NewSession(context.Background(), db, stubDialect{}, "")
	require.NoError(t, err)
	return s, mock
}

func TestSession_TransactionLifecycle(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()
	assert.Equal(t, "main", s.Schema())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM t WHERE k = $1").WithArgs("K").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("SAVEPOINT sp1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT sp1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM tables WHERE name = $1").WithArgs("T").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("T").AddRow(nil))
	mock.ExpectCommit()
	mock.ExpectClose()

	require.NoError(t, s.Begin(ctx))
	assert.True(t, s.InTx())
	assert.Error(t, s.Begin(ctx), "second Begin must fail")

	n, err := s.Exec(ctx, "DELETE FROM t WHERE k = $1", "K")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, s.Savepoint(ctx, "sp1"))
	require.NoError(t, s.RollbackTo(ctx, "sp1"))
	require.NoError(t, s.Release(ctx, "sp1"))

	q, args := s.Dialect().TableExistsQuery(s.Schema(), "T")
	got, err := s.QueryStrings(ctx, q, args...)
	require.NoError(t, err)
	assert.Equal(t, []string{"T", ""}, got)

	require.NoError(t, s.Commit())
	assert.False(t, s.InTx())
	assert.True(t, errors.Is(s.Commit(), sql.ErrTxDone))
	assert.True(t, errors.Is(s.Rollback(), sql.ErrTxDone))

	require.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_SavepointOutsideTx(t *testing.T) {
	s, _ := newMockSession(t)
	assert.Error(t, s.Savepoint(context.Background(), "sp"))
	assert.Error(t, s.RollbackTo(context.Background(), "sp"))
	assert.Error(t, s.Release(context.Background(), "sp"))
}

func TestSession_CloseRollsBackAndIsIdempotent(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectClose()

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, s.Close())

	err := s.Close()
	require.Error(t, err)
	assert.True(t, IsClosed(err))

	_, err = s.Exec(ctx, "SELECT 1")
	assert.True(t, IsClosed(err))
	_, err = s.QueryStrings(ctx, "SELECT 1")
	assert.True(t, IsClosed(err))
	assert.True(t, IsClosed(s.Begin(ctx)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_CloseReportsPoolFailure(t *testing.T) {
	s, mock := newMockSession(t)
	mock.ExpectClose().WillReturnError(errors.New("socket reset"))

	err := s.Close()
	require.Error(t, err)
	assert.False(t, IsClosed(err))
	assert.Contains(t, err.Error(), "close pool")
}

func TestOpen_UnknownKindIsConnectionError(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{Kind: "db2", DSN: "x"})
	require.Error(t, err)
	assert.True(t, loaderr.Is(err, loaderr.Connection))
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestRegistry(t *testing.T) {
	Register("Stub", stubDialect{})
	d, err := Lookup(" stub ")
	require.NoError(t, err)
	assert.Equal(t, "stub", d.Name())
	assert.Contains(t, Kinds(), "stub")
}

func TestIndexErrorClass(t *testing.T) {
	t.Parallel()

	assert.True(t, IndexExists.Benign())
	assert.True(t, IndexDuplicateColumns.Benign())
	assert.False(t, IndexKeyTooLong.Benign())
	assert.Equal(t, "bad_column", IndexBadColumn.String())
	assert.Equal(t, "other", IndexOther.String())
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	d := stubDialect{}
	assert.Equal(t, `"T"`, QualifiedName(d, " ", "T"))
	assert.Equal(t, `"S"."T"`, QualifiedName(d, "S", "T"))
	assert.Equal(t, "$3, $4", Placeholders(d, 3, 2))
	assert.Equal(t, []string{`"A"`, `"B"`}, QuoteAll(d, []string{"A", "B"}))
}
