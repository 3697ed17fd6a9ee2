package batch

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatload/internal/fixedwidth"
	"flatload/internal/layout"
	"flatload/internal/loaderr"
	"flatload/internal/runctx"
	"flatload/internal/skiplog"
	"flatload/internal/storage"
	"flatload/internal/storage/oracle"
	_ "flatload/internal/storage/sqlite"
)

func testRegistry(t *testing.T) *layout.Registry {
	t.Helper()
	fields := []layout.Field{
		{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
		{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
		{Name: "GI03_TERM_ID", Start: 5, End: 8},
		{Name: "SB00_STUDENT_ID", Start: 8, End: 18},
		{Name: "FILLER", Start: 18, End: 20},
	}
	reg, err := layout.NewRegistry(
		layout.Layout{Code: "TT", Fields: fields},
		layout.Layout{Code: "RX", Mode: layout.Relaxed, Fields: fields},
	)
	require.NoError(t, err)
	return reg
}

func line(code, term, student string) string {
	return fmt.Sprintf("%-2s%-3s%-3s%-10s", code, "611", term, student)
}

func writeFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\r\n")+"\r\n"), 0o644))
}

func openSQLite(t *testing.T, path string) *storage.Session {
	t.Helper()
	s, err := storage.Open(context.Background(), storage.Config{Kind: "sqlite", DSN: path})
	require.NoError(t, err)
	return s
}

func newDriver(t *testing.T, dbPath string, log zerolog.Logger) *Driver {
	t.Helper()
	return New(openSQLite(t, dbPath), testRegistry(t), &fixedwidth.Decoder{Log: log}, log)
}

// rowCount returns the row count of table, or -1 when it does not exist.
func rowCount(t *testing.T, dbPath, table string) int {
	t.Helper()
	s := openSQLite(t, dbPath)
	defer s.Close()
	ctx := context.Background()

	names, err := s.QueryStrings(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	require.NoError(t, err)
	if len(names) == 0 {
		return -1
	}
	out, err := s.QueryStrings(ctx, `SELECT COUNT(*) FROM "`+table+`"`)
	require.NoError(t, err)
	n, err := strconv.Atoi(out[0])
	require.NoError(t, err)
	return n
}

func TestRun_LoadsFolder(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "w.db")
	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"), line("TT", "231", "1002"), line("TT", "231", "1003"))
	writeFile(t, dir, "U86231ZZ.dat", line("ZZ", "231", "1001"))
	writeFile(t, dir, "notes.txt", "not a feed file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.dat"), 0o755))

	sum, err := newDriver(t, dbPath, zerolog.Nop()).Run(context.Background(), runctx.New(), dir)
	require.NoError(t, err)
	assert.True(t, sum.OK())
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 0, sum.Errored)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Total)
	assert.NotEmpty(t, sum.RunID)

	require.Len(t, sum.Files, 2)
	tt := sum.Files[0]
	assert.Equal(t, "MIS_TT_IN", tt.Table)
	assert.Equal(t, "231", tt.Partition)
	assert.Len(t, tt.Checksum, 16)
	assert.Equal(t, 3, tt.Records)
	assert.EqualValues(t, 3, tt.Load.Inserted)
	assert.True(t, tt.Load.Created)
	assert.Equal(t, OutcomeSkipped, sum.Files[1].Outcome)
	assert.Equal(t, loaderr.UnknownLayout, sum.Files[1].Kind)
	assert.Equal(t, 3, rowCount(t, dbPath, "MIS_TT_IN"))

	// a second run replaces the partition
	sum, err = newDriver(t, dbPath, zerolog.Nop()).Run(context.Background(), runctx.New(), dir)
	require.NoError(t, err)
	assert.EqualValues(t, 3, sum.Files[0].Load.Deleted)
	assert.False(t, sum.Files[0].Load.Created)
	assert.Equal(t, tt.Checksum, sum.Files[0].Checksum)
	assert.Equal(t, 3, rowCount(t, dbPath, "MIS_TT_IN"))
}

func TestRun_FileFailureDoesNotStopRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "w.db")
	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"), "TT611231\xff\xfe")
	writeFile(t, dir, "U86232RX.dat", line("RX", "232", "2001"), "RX611232\xff\xfe")

	skips, err := skiplog.New(filepath.Join(t.TempDir(), "skipped.csv"))
	require.NoError(t, err)
	defer skips.Close()

	d := newDriver(t, dbPath, zerolog.Nop())
	d.Skips = skips
	sum, err := d.Run(context.Background(), runctx.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Errored)
	assert.Equal(t, 2, sum.Total)
	assert.True(t, sum.Committed)

	require.Len(t, sum.Files, 2)
	assert.Equal(t, loaderr.Decode, sum.Files[0].Kind)
	assert.Equal(t, OutcomeErrored, sum.Files[0].Outcome)
	assert.Equal(t, 1, sum.Files[1].BadLines)
	assert.Equal(t, map[string]int{skiplog.ReasonBadLine: 1}, skips.Counts())

	assert.Equal(t, -1, rowCount(t, dbPath, "MIS_TT_IN"))
	assert.Equal(t, 1, rowCount(t, dbPath, "MIS_RX_IN"))
}

func TestRun_AbortBetweenFilesDropsCreatedTables(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "w.db")
	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"))
	writeFile(t, dir, "U86232RX.dat", line("RX", "232", "2001"))

	beforeFile = func(rc *runctx.RunContext, name string) {
		if name == "U86232RX.dat" {
			rc.Abort()
		}
	}
	defer func() { beforeFile = func(*runctx.RunContext, string) {} }()

	rc := runctx.New()
	sum, err := newDriver(t, dbPath, zerolog.Nop()).Run(context.Background(), rc, dir)
	require.Error(t, err)
	assert.True(t, loaderr.Is(err, loaderr.Abort))
	assert.True(t, sum.Aborted)
	assert.False(t, sum.Committed)
	assert.Zero(t, sum.CommittedFiles)
	assert.False(t, sum.OK())
	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, []string{"MIS_TT_IN"}, rc.Created())

	assert.Equal(t, -1, rowCount(t, dbPath, "MIS_TT_IN"))
	assert.Equal(t, -1, rowCount(t, dbPath, "MIS_RX_IN"))
}

func TestRun_CancelledContextAborts(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "w.db")
	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := runctx.New()
	sum, err := newDriver(t, dbPath, zerolog.Nop()).Run(ctx, rc, dir)
	assert.True(t, loaderr.Is(err, loaderr.Abort))
	assert.True(t, sum.Aborted)
	assert.Empty(t, sum.Files)
	assert.True(t, rc.Aborted())
	assert.Equal(t, -1, rowCount(t, dbPath, "MIS_TT_IN"))
}

func TestRun_CommitPerFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "w.db")
	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"), line("TT", "231", "1002"))
	writeFile(t, dir, "U86232TT.dat", line("TT", "232", "2001"), "TT611232\xff")

	d := newDriver(t, dbPath, zerolog.Nop())
	d.CommitMode = CommitFile
	sum, err := d.Run(context.Background(), runctx.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Errored)
	assert.True(t, sum.Committed)
	assert.Equal(t, 2, rowCount(t, dbPath, "MIS_TT_IN"))
}

func TestRun_AbortInFileModeKeepsCommittedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "w.db")
	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"))
	_, err := newDriver(t, dbPath, zerolog.Nop()).Run(context.Background(), runctx.New(), dir)
	require.NoError(t, err)

	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"), line("TT", "231", "1002"))
	writeFile(t, dir, "U86232RX.dat", line("RX", "232", "2001"))
	writeFile(t, dir, "U86233TT.dat", line("TT", "233", "3001"))

	beforeFile = func(rc *runctx.RunContext, name string) {
		if name == "U86233TT.dat" {
			rc.Abort()
		}
	}
	defer func() { beforeFile = func(*runctx.RunContext, string) {} }()

	var buf bytes.Buffer
	d := newDriver(t, dbPath, zerolog.New(&buf))
	d.CommitMode = CommitFile
	sum, err := d.Run(context.Background(), runctx.New(), dir)
	require.Error(t, err)
	assert.True(t, loaderr.Is(err, loaderr.Abort))
	assert.True(t, sum.Aborted)
	assert.True(t, sum.Committed)
	assert.Equal(t, 1, sum.CommittedFiles, "the table created by this run is dropped")
	assert.Equal(t, 2, sum.Succeeded)
	assert.False(t, sum.OK())
	assert.Contains(t, buf.String(), "earlier files stay committed")
	assert.NotContains(t, buf.String(), "nothing committed")

	assert.Equal(t, 2, rowCount(t, dbPath, "MIS_TT_IN"))
	assert.Equal(t, -1, rowCount(t, dbPath, "MIS_RX_IN"))
}

func TestRun_InsertFailureAfterDeleteKeepsPartition(t *testing.T) {
	for _, mode := range []CommitMode{CommitRun, CommitFile} {
		t.Run(string(mode), func(t *testing.T) {
			dir := t.TempDir()
			dbPath := filepath.Join(t.TempDir(), "w.db")
			writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"), line("TT", "231", "1002"), line("TT", "231", "1003"))
			_, err := newDriver(t, dbPath, zerolog.Nop()).Run(context.Background(), runctx.New(), dir)
			require.NoError(t, err)

			s := openSQLite(t, dbPath)
			_, err = s.Exec(context.Background(), `CREATE UNIQUE INDEX "TT_STUDENT_UQ" ON "MIS_TT_IN" ("SB00_STUDENT_ID")`)
			require.NoError(t, err)
			require.NoError(t, s.Close())

			// the second 2001 violates the unique index after the 231 delete ran
			writeFile(t, dir, "U86231TT.dat", line("TT", "231", "2001"), line("TT", "231", "2001"))
			writeFile(t, dir, "U86232TT.dat", line("TT", "232", "3001"))

			d := newDriver(t, dbPath, zerolog.Nop())
			d.CommitMode = mode
			sum, err := d.Run(context.Background(), runctx.New(), dir)
			require.NoError(t, err)
			assert.True(t, sum.Committed)
			assert.Equal(t, 1, sum.Succeeded)
			assert.Equal(t, 1, sum.Errored)
			assert.Equal(t, 1, sum.CommittedFiles)

			require.Len(t, sum.Files, 2)
			failed := sum.Files[0]
			assert.Equal(t, loaderr.Insert, failed.Kind)
			assert.EqualValues(t, 3, failed.Load.Deleted)
			assert.EqualValues(t, 1, failed.Load.Inserted)

			// the three 231 rows are back plus the 232 row
			assert.Equal(t, 4, rowCount(t, dbPath, "MIS_TT_IN"))
			check := openSQLite(t, dbPath)
			defer check.Close()
			got, err := check.QueryStrings(context.Background(),
				`SELECT TRIM("SB00_STUDENT_ID") FROM "MIS_TT_IN" WHERE "GI03_TERM_ID" = ? ORDER BY 1`, "231")
			require.NoError(t, err)
			assert.Equal(t, []string{"1001", "1002", "1003"}, got)
		})
	}
}

func TestRun_ProductionTableGuard(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "w.db")
	writeFile(t, dir, "U86231TT.dat", line("TT", "231", "1001"))

	var buf bytes.Buffer
	d := newDriver(t, dbPath, zerolog.New(&buf))
	d.Naming.TableSuffix = ""
	sum, err := d.Run(context.Background(), runctx.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 0, sum.Total)
	assert.False(t, sum.OK())
	assert.Contains(t, buf.String(), "production table")
	assert.Equal(t, -1, rowCount(t, dbPath, "MIS_TT_IN"))
}

func TestRun_MissingFolder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "w.db")
	_, err := newDriver(t, dbPath, zerolog.Nop()).Run(context.Background(), runctx.New(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_Teardown(t *testing.T) {
	cases := []struct {
		name     string
		closeErr error
		wantWarn bool
	}{
		{"already closed is swallowed", sql.ErrConnDone, false},
		{"other failures are warned", errors.New("ORA-03135: connection lost contact"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			s, err := storage.NewSession(context.Background(), db, oracle.Dialect{}, "mis")
			require.NoError(t, err)

			mock.ExpectBegin()
			mock.ExpectCommit()
			mock.ExpectClose().WillReturnError(tc.closeErr)

			var buf bytes.Buffer
			log := zerolog.New(&buf)
			d := New(s, testRegistry(t), &fixedwidth.Decoder{Log: log}, log)
			sum, err := d.Run(context.Background(), runctx.New(), t.TempDir())
			require.NoError(t, err)
			assert.True(t, sum.Committed)
			assert.False(t, sum.OK(), "nothing was loaded")
			assert.Equal(t, tc.wantWarn, strings.Contains(buf.String(), "close connection failed"))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
