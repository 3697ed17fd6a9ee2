package loader

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatload/internal/ddl"
	"flatload/internal/layout"
	"flatload/internal/loaderr"
	"flatload/internal/runctx"
	"flatload/internal/skiplog"
	"flatload/internal/storage"
	"flatload/internal/storage/oracle"
	_ "flatload/internal/storage/sqlite"
)

type rows []map[string]string

func (r rows) Len() int                           { return len(r) }
func (r rows) Row(i int) (int, map[string]string) { return i + 1, r[i] }

func sbRow(term, student string) map[string]string {
	return map[string]string{
		"GI90_RECORD_CODE": "SB",
		"GI03_TERM_ID":     term,
		"SB00_STUDENT_ID":  student,
	}
}

func sbTarget(term string, mode layout.Mode) Target {
	return Target{
		File:            "T" + term + "SB.dat",
		Table:           "MIS_SB_IN",
		Columns:         []string{"GI90_RECORD_CODE", "GI03_TERM_ID", "SB00_STUDENT_ID"},
		Required:        []string{"SB00_STUDENT_ID"},
		PartitionColumn: "GI03_TERM_ID",
		PartitionValue:  term,
		Types:           ddl.MISTypes,
		Mode:            mode,
	}
}

func openSQLite(t *testing.T, path string) *storage.Session {
	t.Helper()
	s, err := storage.Open(context.Background(), storage.Config{Kind: "sqlite", DSN: path})
	require.NoError(t, err)
	return s
}

func count(t *testing.T, s *storage.Session, query string, args ...any) int {
	t.Helper()
	out, err := s.QueryStrings(context.Background(), query, args...)
	require.NoError(t, err)
	require.Len(t, out, 1)
	n, err := strconv.Atoi(out[0])
	require.NoError(t, err)
	return n
}

// load runs one committed load in its own transaction.
func load(t *testing.T, s *storage.Session, tgt Target, r Rows) Result {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx))
	res, err := New(s, zerolog.Nop()).Load(ctx, runctx.New(), tgt, r)
	require.NoError(t, err)
	require.NoError(t, s.Commit())
	return res
}

func TestLoad_ReloadIsIdempotent(t *testing.T) {
	s := openSQLite(t, filepath.Join(t.TempDir(), "w.db"))
	defer s.Close()

	fall := rows{sbRow("231", " 1001 "), sbRow("231", "1002"), sbRow("231", "1003")}

	first := load(t, s, sbTarget("231", layout.Standard), fall)
	assert.True(t, first.Created)
	assert.EqualValues(t, 3, first.Inserted)
	assert.EqualValues(t, 0, first.Deleted)

	again := load(t, s, sbTarget("231", layout.Standard), fall)
	assert.False(t, again.Created)
	assert.EqualValues(t, 3, again.Deleted)
	assert.EqualValues(t, 3, again.Inserted)
	assert.Equal(t, 3, count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN"`))

	// other partitions are untouched
	load(t, s, sbTarget("232", layout.Standard), rows{sbRow("232", "2001"), sbRow("232", "2002")})
	load(t, s, sbTarget("231", layout.Standard), rows{sbRow("231", "1001")})
	assert.Equal(t, 1, count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN" WHERE "GI03_TERM_ID" = ?`, "231"))
	assert.Equal(t, 2, count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN" WHERE "GI03_TERM_ID" = ?`, "232"))

	// values are stored trimmed
	assert.Equal(t, 1, count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN" WHERE "SB00_STUDENT_ID" = ?`, "1001"))
}

func TestLoad_ExtraColumnsAndNoPartition(t *testing.T) {
	s := openSQLite(t, filepath.Join(t.TempDir(), "w.db"))
	defer s.Close()

	tgt := sbTarget("231", layout.Standard)
	tgt.PartitionColumn = ""
	tgt.Extra = []Column{{Name: "source_file", Value: "T231SB.dat"}}

	r := rows{sbRow("231", "1001")}
	load(t, s, tgt, r)
	res := load(t, s, tgt, r)
	assert.EqualValues(t, 0, res.Deleted)
	assert.Equal(t, 2, count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN" WHERE "SOURCE_FILE" = ?`, "T231SB.dat"))
}

func TestLoad_PartitionColumnMissingKeepsRows(t *testing.T) {
	s := openSQLite(t, filepath.Join(t.TempDir(), "w.db"))
	defer s.Close()
	ctx := context.Background()

	_, err := s.Exec(ctx, `CREATE TABLE "MIS_SB_IN" ("GI90_RECORD_CODE" TEXT, "SB00_STUDENT_ID" TEXT)`)
	require.NoError(t, err)

	tgt := sbTarget("231", layout.Standard)
	tgt.Columns = []string{"GI90_RECORD_CODE", "SB00_STUDENT_ID"}
	r := rows{{"GI90_RECORD_CODE": "SB", "SB00_STUDENT_ID": "1001"}}

	var buf bytes.Buffer
	require.NoError(t, s.Begin(ctx))
	l := New(s, zerolog.New(&buf))
	_, err = l.Load(ctx, runctx.New(), tgt, r)
	require.NoError(t, err)
	_, err = l.Load(ctx, runctx.New(), tgt, r)
	require.NoError(t, err)
	require.NoError(t, s.Commit())

	assert.Equal(t, 2, count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN"`))
	assert.Contains(t, buf.String(), "partition column missing")
}

func TestLoad_RowFiltering(t *testing.T) {
	input := rows{
		sbRow("231", "1001"),
		sbRow("231", "   "),
		{"GI90_RECORD_CODE": " ", "GI03_TERM_ID": "", "SB00_STUDENT_ID": ""},
		sbRow("231", "1004"),
	}

	cases := []struct {
		mode         layout.Mode
		wantInserted int64
		wantDropped  int64
		wantReasons  map[string]int
	}{
		{layout.Standard, 2, 2, map[string]int{skiplog.ReasonAllEmpty: 1, skiplog.ReasonMissingRequired: 1}},
		{layout.Relaxed, 3, 1, map[string]int{skiplog.ReasonAllEmpty: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			dir := t.TempDir()
			s := openSQLite(t, filepath.Join(dir, "w.db"))
			defer s.Close()
			skips, err := skiplog.New(filepath.Join(dir, "skipped.csv"))
			require.NoError(t, err)
			defer skips.Close()

			ctx := context.Background()
			require.NoError(t, s.Begin(ctx))
			l := New(s, zerolog.Nop())
			l.Skips = skips
			res, err := l.Load(ctx, runctx.New(), sbTarget("231", tc.mode), input)
			require.NoError(t, err)
			require.NoError(t, s.Commit())

			assert.Equal(t, tc.wantInserted, res.Inserted)
			assert.Equal(t, tc.wantDropped, res.Dropped)
			assert.Equal(t, tc.wantReasons, skips.Counts())
			assert.Equal(t, int(tc.wantInserted), count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN"`))
		})
	}
}

// depthConn tracks how deep the savepoint stack is.
type depthConn struct {
	storage.Conn
	depth, max int
}

func (c *depthConn) Savepoint(ctx context.Context, name string) error {
	err := c.Conn.Savepoint(ctx, name)
	if err == nil {
		c.depth++
		if c.depth > c.max {
			c.max = c.depth
		}
	}
	return err
}

func (c *depthConn) Release(ctx context.Context, name string) error {
	err := c.Conn.Release(ctx, name)
	if err == nil {
		c.depth--
	}
	return err
}

func TestLoad_RelaxedSavepointDepthStaysFlat(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, filepath.Join(t.TempDir(), "w.db"))
	defer s.Close()

	load(t, s, sbTarget("231", layout.Standard), rows{sbRow("231", "1")})
	_, err := s.Exec(ctx, `CREATE UNIQUE INDEX "SB_STUDENT_UQ" ON "MIS_SB_IN" ("SB00_STUDENT_ID")`)
	require.NoError(t, err)

	const n = 50
	var input rows
	for i := 0; i < n; i++ {
		input = append(input, sbRow("231", strconv.Itoa(1000+i)))
	}
	input = append(input, sbRow("231", "1000"))

	conn := &depthConn{Conn: s}
	tgt := sbTarget("231", layout.Relaxed)
	tgt.Savepoint = "flatload_file"

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, conn.Savepoint(ctx, tgt.Savepoint))
	res, err := New(conn, zerolog.Nop()).Load(ctx, runctx.New(), tgt, input)
	require.NoError(t, err)
	assert.EqualValues(t, n, res.Inserted)
	assert.EqualValues(t, 1, res.Failed, "duplicate student id")

	assert.Equal(t, 1, conn.depth, "only the file savepoint is still open")
	assert.Equal(t, 2, conn.max, "row savepoints nest one level under the file")
	assert.Error(t, s.RollbackTo(ctx, "flatload_row"), "row savepoint was released")

	require.NoError(t, conn.Release(ctx, tgt.Savepoint))
	assert.Equal(t, 0, conn.depth)
	require.NoError(t, s.Commit())
	assert.Equal(t, n, count(t, s, `SELECT COUNT(*) FROM "MIS_SB_IN"`))
}

func TestLoad_AbortMidBatchRollsBackAndDropsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.db")
	s := openSQLite(t, path)
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx))

	beforeRow = func(rc *runctx.RunContext, i int) {
		if i == 2 {
			rc.Abort()
		}
	}
	defer func() { beforeRow = func(*runctx.RunContext, int) {} }()

	var input rows
	for i := 0; i < 10; i++ {
		input = append(input, sbRow("231", strconv.Itoa(1000+i)))
	}

	rc := runctx.New()
	res, err := New(s, zerolog.Nop()).Load(ctx, rc, sbTarget("231", layout.Standard), input)
	require.Error(t, err)
	assert.True(t, loaderr.Is(err, loaderr.Abort))
	assert.True(t, errors.Is(err, runctx.ErrAborted))
	assert.LessOrEqual(t, res.Inserted, int64(2))
	assert.True(t, storage.IsClosed(s.Close()), "cleanup closes the session")

	check := openSQLite(t, path)
	defer check.Close()
	assert.Equal(t, 0, count(t, check, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", "MIS_SB_IN"))
}

const (
	oraExists  = "SELECT table_name FROM all_tables WHERE owner = :1 AND table_name = :2"
	oraColumns = "SELECT column_name FROM all_tab_columns WHERE owner = :1 AND table_name = :2 ORDER BY column_id"
	oraCreate  = "CREATE TABLE \"MIS\".\"MIS_SB_IN\" (\n  \"GI90_RECORD_CODE\" VARCHAR2(2),\n  \"GI03_TERM_ID\" VARCHAR2(3),\n  \"SB00_STUDENT_ID\" VARCHAR2(10)\n)"
	oraDelete  = `DELETE FROM "MIS"."MIS_SB_IN" WHERE "GI03_TERM_ID" = :1`
	oraInsert  = `INSERT INTO "MIS"."MIS_SB_IN" ("GI90_RECORD_CODE", "GI03_TERM_ID", "SB00_STUDENT_ID") VALUES (:1, :2, :3)`
	oraDrop    = `DROP TABLE "MIS"."MIS_SB_IN" PURGE`
)

// oracleLoader returns a loader over sqlmock speaking the Oracle dialect,
// with an open transaction and grants disabled.
func oracleLoader(t *testing.T, log zerolog.Logger) (*Loader, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	s, err := storage.NewSession(context.Background(), db, oracle.Dialect{}, "mis")
	require.NoError(t, err)
	mock.ExpectBegin()
	require.NoError(t, s.Begin(context.Background()))

	l := New(s, log)
	l.Schema.Grantee = ""
	return l, mock
}

func TestLoad_AbortRollsBackBeforeDropping(t *testing.T) {
	l, mock := oracleLoader(t, zerolog.Nop())

	beforeRow = func(rc *runctx.RunContext, i int) {
		if i == 2 {
			rc.Abort()
		}
	}
	defer func() { beforeRow = func(*runctx.RunContext, int) {} }()

	mock.ExpectQuery(oraExists).WithArgs("MIS", "MIS_SB_IN").WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec(oraCreate).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(oraColumns).WithArgs("MIS", "MIS_SB_IN").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("GI90_RECORD_CODE").AddRow("GI03_TERM_ID").AddRow("SB00_STUDENT_ID"))
	mock.ExpectExec(oraDelete).WithArgs("231").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(oraInsert).WithArgs("SB", "231", "1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(oraInsert).WithArgs("SB", "231", "2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()
	mock.ExpectExec(oraDrop).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	rc := runctx.New()
	input := rows{sbRow("231", "1"), sbRow("231", "2"), sbRow("231", "3"), sbRow("231", "4")}
	res, err := l.Load(context.Background(), rc, sbTarget("231", layout.Standard), input)
	require.Error(t, err)
	assert.True(t, loaderr.Is(err, loaderr.Abort))
	assert.EqualValues(t, 2, res.Inserted)
	assert.True(t, res.Created)
	assert.NoError(t, mock.ExpectationsWereMet())

	// a second cleanup in the same run is a no-op
	assert.NoError(t, Cleanup(context.Background(), l.Conn, rc, zerolog.Nop()))
}

func TestLoad_FileSavepointMarkedAfterSchemaStep(t *testing.T) {
	l, mock := oracleLoader(t, zerolog.Nop())
	l.Schema.Grantee = "PUBLIC"

	tgt := sbTarget("231", layout.Standard)
	tgt.Indexes = []string{"GI03_TERM_ID"}
	tgt.Savepoint = "flatload_file"

	cols := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"column_name"}).AddRow("GI90_RECORD_CODE").AddRow("GI03_TERM_ID").AddRow("SB00_STUDENT_ID")
	}
	mock.ExpectQuery(oraExists).WithArgs("MIS", "MIS_SB_IN").WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec(oraCreate).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT flatload_grant").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`GRANT SELECT ON "MIS"."MIS_SB_IN" TO PUBLIC`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(oraColumns).WithArgs("MIS", "MIS_SB_IN").WillReturnRows(cols())
	mock.ExpectExec("SAVEPOINT flatload_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX "MIS_SB_IN_GI03_TERM_ID_IDX" ON "MIS"."MIS_SB_IN" ("GI03_TERM_ID")`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT flatload_file").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(oraColumns).WithArgs("MIS", "MIS_SB_IN").WillReturnRows(cols())
	mock.ExpectExec(oraDelete).WithArgs("231").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(oraInsert).WithArgs("SB", "231", "1").WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := l.Load(context.Background(), runctx.New(), tgt, rows{sbRow("231", "1")})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.EqualValues(t, 1, res.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_CancelledContextAborts(t *testing.T) {
	l, mock := oracleLoader(t, zerolog.Nop())

	mock.ExpectQuery(oraExists).WithArgs("MIS", "MIS_SB_IN").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("MIS_SB_IN"))
	mock.ExpectRollback()
	mock.ExpectClose()

	ctx, cancel := context.WithCancel(context.Background())
	beforeRow = func(*runctx.RunContext, int) { cancel() }
	defer func() { beforeRow = func(*runctx.RunContext, int) {} }()

	rc := runctx.New()
	tgt := sbTarget("231", layout.Standard)
	tgt.PartitionColumn = ""
	_, err := l.Load(ctx, rc, tgt, rows{sbRow("231", "1")})
	assert.True(t, loaderr.Is(err, loaderr.Abort))
	assert.True(t, rc.Aborted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_InsertFailureByMode(t *testing.T) {
	boom := errors.New("ORA-12899: value too large for column")
	input := rows{sbRow("231", "1"), sbRow("231", "2"), sbRow("231", "3")}

	t.Run("standard", func(t *testing.T) {
		l, mock := oracleLoader(t, zerolog.Nop())
		tgt := sbTarget("231", layout.Standard)
		tgt.PartitionColumn = ""

		mock.ExpectQuery(oraExists).WithArgs("MIS", "MIS_SB_IN").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("MIS_SB_IN"))
		mock.ExpectExec(oraInsert).WithArgs("SB", "231", "1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(oraInsert).WithArgs("SB", "231", "2").WillReturnError(boom)

		res, err := l.Load(context.Background(), runctx.New(), tgt, input)
		require.Error(t, err)
		var le *loaderr.Error
		require.True(t, errors.As(err, &le))
		assert.Equal(t, loaderr.Insert, le.Kind)
		assert.Equal(t, 2, le.Row)
		assert.Equal(t, "MIS_SB_IN", le.Table)
		assert.Equal(t, "T231SB.dat", le.File)
		assert.EqualValues(t, 1, res.Inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("relaxed", func(t *testing.T) {
		var buf bytes.Buffer
		l, mock := oracleLoader(t, zerolog.New(&buf))
		tgt := sbTarget("231", layout.Relaxed)
		tgt.PartitionColumn = ""

		mock.ExpectQuery(oraExists).WithArgs("MIS", "MIS_SB_IN").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("MIS_SB_IN"))
		mock.ExpectExec("SAVEPOINT flatload_row").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(oraInsert).WithArgs("SB", "231", "1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("SAVEPOINT flatload_row").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(oraInsert).WithArgs("SB", "231", "2").WillReturnError(boom)
		mock.ExpectExec("ROLLBACK TO SAVEPOINT flatload_row").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("SAVEPOINT flatload_row").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(oraInsert).WithArgs("SB", "231", "3").WillReturnResult(sqlmock.NewResult(0, 1))

		res, err := l.Load(context.Background(), runctx.New(), tgt, input)
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.Inserted)
		assert.EqualValues(t, 1, res.Failed)
		assert.Contains(t, buf.String(), "row insert failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoad_SchemaFailureIsFatalInStandardMode(t *testing.T) {
	l, mock := oracleLoader(t, zerolog.Nop())
	mock.ExpectQuery(oraExists).WithArgs("MIS", "MIS_SB_IN").WillReturnError(errors.New("ORA-00942: table or view does not exist"))

	_, err := l.Load(context.Background(), runctx.New(), sbTarget("231", layout.Standard), rows{sbRow("231", "1")})
	var le *loaderr.Error
	require.True(t, errors.As(err, &le))
	assert.Equal(t, loaderr.Schema, le.Kind)
	assert.Equal(t, "T231SB.dat", le.File)
	assert.NoError(t, mock.ExpectationsWereMet())
}
