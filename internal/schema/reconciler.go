// Package schema makes sure a target table and its supporting index exist
// before rows are loaded into it.
//
// Tables are created once, lazily, from the column set of the first batch
// that targets them; an existing table is never altered. Index creation is
// best effort and never fails the caller.
package schema

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"flatload/internal/ddl"
	"flatload/internal/layout"
	"flatload/internal/loaderr"
	"flatload/internal/runctx"
	"flatload/internal/storage"
)

// DefaultGrantee receives SELECT on every created table unless configured
// otherwise.
const DefaultGrantee = "PUBLIC"

// MISIndexColumns are the index candidates of the fixed-width feed.
var MISIndexColumns = []string{"GI90_RECORD_CODE", "GI01_DISTRICT_COLLEGE_ID", "GI03_TERM_ID"}

// TableSpec describes the table a batch is loaded into.
type TableSpec struct {
	Table   string
	Columns []string
	Types   ddl.TypeRule
	// Indexes are candidate columns for the composite index; candidates the
	// table does not have are ignored.
	Indexes []string
	Mode    layout.Mode
}

// Reconciler creates tables and indexes through a storage.Conn.
type Reconciler struct {
	Conn storage.Conn
	Log  zerolog.Logger
	// Grantee receives SELECT on created tables; empty disables the grant.
	Grantee string
}

// New returns a Reconciler granting to DefaultGrantee.
func New(conn storage.Conn, log zerolog.Logger) *Reconciler {
	return &Reconciler{Conn: conn, Log: log, Grantee: DefaultGrantee}
}

func (r *Reconciler) fqn(table string) string {
	return storage.QualifiedName(r.Conn.Dialect(), r.Conn.Schema(), table)
}

// TableExists queries the catalog for table in the connection's schema.
func (r *Reconciler) TableExists(ctx context.Context, table string) (bool, error) {
	q, args := r.Conn.Dialect().TableExistsQuery(r.Conn.Schema(), table)
	rows, err := r.Conn.QueryStrings(ctx, q, args...)
	if err != nil {
		return false, errors.Wrapf(err, "table exists %s", table)
	}
	return len(rows) > 0, nil
}

// TableColumns returns the table's column names, upper-cased, in definition
// order. A missing table yields no columns.
func (r *Reconciler) TableColumns(ctx context.Context, table string) ([]string, error) {
	q, args := r.Conn.Dialect().ColumnsQuery(r.Conn.Schema(), table)
	cols, err := r.Conn.QueryStrings(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "columns of %s", table)
	}
	for i, c := range cols {
		cols[i] = strings.ToUpper(c)
	}
	return cols, nil
}

// EnsureTable creates spec.Table when it does not exist, grants read access
// and records it in rc as created by this run. Index creation is attempted
// afterwards in every case. A DDL failure is a loaderr.Schema error in
// Standard mode; in Relaxed mode it is logged and EnsureTable returns
// without error so the caller can still try to insert.
func (r *Reconciler) EnsureTable(ctx context.Context, rc *runctx.RunContext, spec TableSpec) (created bool, err error) {
	log := r.Log.With().Str("table", spec.Table).Logger()

	fail := func(err error) (bool, error) {
		if spec.Mode == layout.Relaxed {
			log.Error().Err(err).Msg("schema step failed; continuing in relaxed mode")
			r.EnsureIndex(ctx, spec.Table, spec.Indexes)
			return false, nil
		}
		return false, loaderr.New(loaderr.Schema, err).WithTable(spec.Table)
	}

	exists, err := r.TableExists(ctx, spec.Table)
	if err != nil {
		return fail(err)
	}

	if !exists {
		d := r.Conn.Dialect()
		stmt, err := ddl.BuildCreateTableSQL(ddl.TableDef{
			FQN:     r.fqn(spec.Table),
			Columns: ddl.Columns(spec.Columns, spec.Types, d.QuoteIdent, d.ColumnType),
		})
		if err != nil {
			return fail(err)
		}
		if _, err := r.Conn.Exec(ctx, stmt); err != nil {
			return fail(errors.Wrap(err, "create table"))
		}
		created = true
		rc.AddCreated(spec.Table)
		log.Info().Int("columns", len(spec.Columns)).Msg("table created")

		if grant := d.GrantSelectSQL(r.fqn(spec.Table), r.Grantee); grant != "" {
			if err := r.bestEffort(ctx, "flatload_grant", grant); err != nil {
				log.Warn().Err(err).Str("grantee", r.Grantee).Msg("grant select failed")
			}
		}
	}

	r.EnsureIndex(ctx, spec.Table, spec.Indexes)
	return created, nil
}

// EnsureIndex creates one composite index over the candidates that exist as
// columns of table, named <TABLE>_<COL>..._IDX. It never fails: an index
// that already exists is logged at info, any other failure as a warning.
func (r *Reconciler) EnsureIndex(ctx context.Context, table string, candidates []string) {
	if len(candidates) == 0 {
		return
	}
	log := r.Log.With().Str("table", table).Logger()

	cols, err := r.TableColumns(ctx, table)
	if err != nil {
		log.Warn().Err(err).Msg("index skipped: cannot read columns")
		return
	}
	have := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		have[c] = struct{}{}
	}
	var present []string
	for _, c := range candidates {
		c = strings.ToUpper(c)
		if _, ok := have[c]; ok {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return
	}

	d := r.Conn.Dialect()
	name := ddl.IndexName(table, present)
	stmt := d.CreateIndexSQL(name, r.fqn(table), storage.QuoteAll(d, present))

	err = r.bestEffort(ctx, "flatload_idx", stmt)
	if err == nil {
		log.Info().Str("index", name).Strs("columns", present).Msg("index created")
		return
	}

	class := d.ClassifyIndexError(err)
	ev := log.Warn()
	if class.Benign() {
		ev = log.Info()
	}
	ev.Str("index", name).Str("class", class.String()).Err(err).Msg("index not created")
}

// bestEffort runs stmt inside its own savepoint when a transaction is open,
// so a failure leaves the surrounding transaction usable. The savepoint is
// released afterwards.
func (r *Reconciler) bestEffort(ctx context.Context, savepoint, stmt string) error {
	guarded := r.Conn.Savepoint(ctx, savepoint) == nil
	_, err := r.Conn.Exec(ctx, stmt)
	if !guarded {
		return err
	}
	if err != nil {
		if rbErr := r.Conn.RollbackTo(ctx, savepoint); rbErr != nil {
			r.Log.Debug().Err(rbErr).Str("savepoint", savepoint).Msg("rollback to savepoint failed")
		}
	}
	if relErr := r.Conn.Release(ctx, savepoint); relErr != nil {
		r.Log.Debug().Err(relErr).Str("savepoint", savepoint).Msg("release savepoint failed")
	}
	return err
}
