package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatload/internal/storage"
)

func openTemp(t *testing.T) *storage.Session {
	t.Helper()
	s, err := storage.Open(context.Background(), storage.Config{
		Kind: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "warehouse.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_CatalogAndSavepoints(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	d := s.Dialect()
	fqn := storage.QualifiedName(d, s.Schema(), "MIS_SB_IN")

	require.NoError(t, s.Begin(ctx))
	_, err := s.Exec(ctx, `CREATE TABLE `+fqn+` ("GI90_RECORD_CODE" TEXT, "GI03_TERM_ID" TEXT)`)
	require.NoError(t, err)

	q, args := d.TableExistsQuery(s.Schema(), "MIS_SB_IN")
	got, err := s.QueryStrings(ctx, q, args...)
	require.NoError(t, err)
	assert.Equal(t, []string{"MIS_SB_IN"}, got)

	q, args = d.ColumnsQuery(s.Schema(), "MIS_SB_IN")
	cols, err := s.QueryStrings(ctx, q, args...)
	require.NoError(t, err)
	assert.Equal(t, []string{"GI90_RECORD_CODE", "GI03_TERM_ID"}, cols)

	insert := `INSERT INTO ` + fqn + ` VALUES (` + storage.Placeholders(d, 1, 2) + `)`
	_, err = s.Exec(ctx, insert, "SB", "231")
	require.NoError(t, err)

	require.NoError(t, s.Savepoint(ctx, "sp_file"))
	_, err = s.Exec(ctx, insert, "SB", "232")
	require.NoError(t, err)
	require.NoError(t, s.RollbackTo(ctx, "sp_file"))
	require.NoError(t, s.Release(ctx, "sp_file"))

	require.NoError(t, s.Savepoint(ctx, "sp_row"))
	_, err = s.Exec(ctx, insert, "SB", "233")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "sp_row"))
	assert.Error(t, s.RollbackTo(ctx, "sp_row"), "released savepoint is gone")
	require.NoError(t, s.Commit())

	n, err := s.Exec(ctx, `DELETE FROM `+fqn+` WHERE "GI03_TERM_ID" = ?`, "231")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "only the row before the savepoint survived")

	n, err = s.Exec(ctx, `DELETE FROM `+fqn+` WHERE "GI03_TERM_ID" = ?`, "233")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "released work is kept")
}

func TestSession_RollbackDropsUncommittedDDL(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	d := s.Dialect()

	require.NoError(t, s.Begin(ctx))
	_, err := s.Exec(ctx, `CREATE TABLE "T" ("A" TEXT)`)
	require.NoError(t, err)
	require.NoError(t, s.Rollback())

	q, args := d.TableExistsQuery("", "T")
	got, err := s.QueryStrings(ctx, q, args...)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.Exec(ctx, d.DropTableSQL(`"T"`))
	assert.NoError(t, err, "dropping a missing table is not an error")
}

func TestDialect_ClassifyIndexError(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	d := s.Dialect()

	_, err := s.Exec(ctx, `CREATE TABLE "T" ("A" TEXT)`)
	require.NoError(t, err)

	create := d.CreateIndexSQL("T_A_IDX", `"T"`, []string{`"A"`})
	_, err = s.Exec(ctx, create)
	require.NoError(t, err)

	_, err = s.Exec(ctx, create)
	require.Error(t, err)
	assert.Equal(t, storage.IndexExists, d.ClassifyIndexError(err))

	_, err = s.Exec(ctx, d.CreateIndexSQL("T_B_IDX", `"T"`, []string{`"B"`}))
	require.Error(t, err)
	assert.Equal(t, storage.IndexBadColumn, d.ClassifyIndexError(err))

	assert.Equal(t, storage.IndexOther, d.ClassifyIndexError(errors.New("database is locked")))
}

func TestDialect_Rendering(t *testing.T) {
	t.Parallel()

	d := Dialect{}
	assert.Equal(t, "TEXT", d.ColumnType(2))
	assert.Empty(t, d.GrantSelectSQL(`"T"`, "PUBLIC"))
	assert.Equal(t, "RELEASE SAVEPOINT sp1", d.ReleaseSQL("sp1"))
	assert.Error(t, d.ValidateDSN(" "))
	assert.Equal(t, "?, ?", storage.Placeholders(d, 1, 2))
}
