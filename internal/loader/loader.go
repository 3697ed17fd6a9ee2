// Package loader replaces one partition of a target table with a decoded
// batch: ensure the table, delete the rows of the partition, insert the
// batch row by row.
//
// Re-running a load for the same partition leaves exactly one copy of each
// row. The abort flag of the run is polled before every insert; on abort the
// transaction is rolled back, tables created by the run are dropped and the
// connection is closed.
package loader

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"flatload/internal/ddl"
	"flatload/internal/layout"
	"flatload/internal/loaderr"
	"flatload/internal/metrics"
	"flatload/internal/runctx"
	"flatload/internal/schema"
	"flatload/internal/skiplog"
	"flatload/internal/storage"
)

// Rows is a decoded batch: Len records, each with its 1-based source line
// and its column values.
type Rows interface {
	Len() int
	Row(i int) (line int, values map[string]string)
}

// Column is a constant value added to every inserted row.
type Column struct {
	Name  string
	Value string
}

// Target describes where and how one batch is loaded.
type Target struct {
	// File is the source file name, used in logs and the skip log.
	File  string
	Table string
	// Columns are the batch columns in insert order.
	Columns []string
	// Required columns must be non-empty in Standard mode.
	Required []string
	// PartitionColumn and PartitionValue select the rows replaced by this
	// load. An empty PartitionColumn appends without deleting.
	PartitionColumn string
	PartitionValue  string
	// Extra columns are appended to the table and to every row.
	Extra   []Column
	Types   ddl.TypeRule
	Indexes []string
	Mode    layout.Mode
	// Savepoint, when set, names the caller's file savepoint. It is marked
	// again once the table is ensured, since CREATE and GRANT commit
	// implicitly on some engines and take the earlier mark with them.
	Savepoint string
}

// Result counts what one load did.
type Result struct {
	Created  bool
	Deleted  int64
	Inserted int64
	// Dropped rows were empty or missing a required value.
	Dropped int64
	// Failed rows hit an insert error in Relaxed mode.
	Failed int64
}

const rowSavepoint = "flatload_row"

// beforeRow runs before the abort check of every insert. Tests use it to
// request an abort at a precise row.
var beforeRow = func(rc *runctx.RunContext, i int) {}

// Loader loads batches through one storage.Conn.
type Loader struct {
	Conn   storage.Conn
	Schema *schema.Reconciler
	Log    zerolog.Logger
	// Skips receives dropped and failed rows; nil disables it.
	Skips *skiplog.Log
	// Job labels metrics.
	Job string
}

// New returns a Loader with a default schema reconciler on conn.
func New(conn storage.Conn, log zerolog.Logger) *Loader {
	return &Loader{
		Conn:   conn,
		Schema: schema.New(conn, log),
		Log:    log,
		Job:    "flatload",
	}
}

// Load ensures t.Table, replaces the t.PartitionValue partition with rows and
// returns the counts. Errors are *loaderr.Error values: Schema for DDL and
// catalog failures, Insert for write failures (Standard mode), Abort when
// the run's abort flag was observed.
func (l *Loader) Load(ctx context.Context, rc *runctx.RunContext, t Target, rows Rows) (Result, error) {
	var res Result
	log := l.Log.With().
		Str("run_id", rc.ID()).
		Str("file", t.File).
		Str("table", t.Table).
		Str("mode", t.Mode.String()).
		Logger()

	cols := upperAll(t.Columns)
	required := upperAll(t.Required)
	allCols := append([]string{}, cols...)
	extraVals := make([]any, 0, len(t.Extra))
	for _, e := range t.Extra {
		allCols = append(allCols, strings.ToUpper(e.Name))
		extraVals = append(extraVals, e.Value)
	}

	created, err := l.Schema.EnsureTable(ctx, rc, schema.TableSpec{
		Table:   t.Table,
		Columns: allCols,
		Types:   t.Types,
		Indexes: t.Indexes,
		Mode:    t.Mode,
	})
	if err != nil {
		return res, loaderr.Annotate(err, t.File)
	}
	res.Created = created
	if t.Savepoint != "" {
		l.remark(ctx, log, t.Savepoint)
	}

	d := l.Conn.Dialect()
	fqn := storage.QualifiedName(d, l.Conn.Schema(), t.Table)

	if t.PartitionColumn != "" {
		n, ok, err := l.deletePartition(ctx, fqn, t)
		if err != nil {
			return res, loaderr.Annotate(err, t.File)
		}
		if ok {
			res.Deleted = n
			log.Info().
				Str("partition", t.PartitionValue).
				Int64("rows", n).
				Msg("rows deleted")
		}
	}

	insert := "INSERT INTO " + fqn +
		" (" + strings.Join(storage.QuoteAll(d, allCols), ", ") + ")" +
		" VALUES (" + storage.Placeholders(d, 1, len(allCols)) + ")"
	relaxed := t.Mode == layout.Relaxed

	for i := 0; i < rows.Len(); i++ {
		line, rec := rows.Row(i)
		args, values := rowArgs(rec, cols, extraVals)

		if allEmpty(values) {
			res.Dropped++
			l.Skips.Add(skiplog.ReasonAllEmpty, t.File, t.Table, line, "")
			continue
		}
		if !relaxed {
			if missing := missingRequired(rec, required); len(missing) > 0 {
				res.Dropped++
				log.Debug().Int("row", line).Strs("missing", missing).Msg("row dropped")
				l.Skips.Add(skiplog.ReasonMissingRequired, t.File, t.Table, line, strings.Join(missing, ","))
				continue
			}
		}

		beforeRow(rc, i)
		if rc.Aborted() || ctx.Err() != nil {
			rc.Abort()
			log.Warn().Int("row", line).Int64("inserted", res.Inserted).Msg("abort requested; rolling back")
			l.record(res)
			_ = Cleanup(ctx, l.Conn, rc, l.Log)
			return res, loaderr.New(loaderr.Abort, runctx.ErrAborted).WithFile(t.File).WithTable(t.Table).WithRow(line)
		}

		if err := l.insertRow(ctx, insert, args, relaxed); err != nil {
			if !relaxed {
				l.record(res)
				return res, loaderr.New(loaderr.Insert, err).WithFile(t.File).WithTable(t.Table).WithRow(line)
			}
			res.Failed++
			log.Error().Int("row", line).Err(err).Msg("row insert failed")
			l.Skips.Add(skiplog.ReasonInsertFailed, t.File, t.Table, line, strings.Join(values, "|"))
			continue
		}
		res.Inserted++
	}

	log.Info().
		Int64("inserted", res.Inserted).
		Int64("dropped", res.Dropped).
		Int64("failed", res.Failed).
		Msg("rows inserted")
	l.record(res)
	return res, nil
}

// deletePartition removes the rows of t's partition. ok is false when the
// table has no partition column, in which case nothing is deleted.
func (l *Loader) deletePartition(ctx context.Context, fqn string, t Target) (n int64, ok bool, err error) {
	part := strings.ToUpper(t.PartitionColumn)
	tableCols, err := l.Schema.TableColumns(ctx, t.Table)
	if err != nil {
		return 0, false, loaderr.New(loaderr.Schema, err).WithTable(t.Table)
	}
	if !contains(tableCols, part) {
		l.Log.Warn().Str("table", t.Table).Str("column", part).Msg("partition column missing; existing rows kept")
		return 0, false, nil
	}

	d := l.Conn.Dialect()
	stmt := "DELETE FROM " + fqn + " WHERE " + d.QuoteIdent(part) + " = " + d.Placeholder(1)
	n, err = l.Conn.Exec(ctx, stmt, t.PartitionValue)
	if err != nil {
		return 0, false, loaderr.New(loaderr.Insert, errors.Wrap(err, "delete partition")).WithTable(t.Table)
	}
	return n, true, nil
}

// remark replaces the savepoint name with a fresh one at the current point.
// The release fails harmlessly where the engine already dropped it.
func (l *Loader) remark(ctx context.Context, log zerolog.Logger, name string) {
	if err := l.Conn.Release(ctx, name); err != nil {
		log.Debug().Err(err).Str("savepoint", name).Msg("release before re-mark failed")
	}
	if err := l.Conn.Savepoint(ctx, name); err != nil {
		log.Debug().Err(err).Str("savepoint", name).Msg("file savepoint unavailable after schema step")
	}
}

// insertRow inserts one row. In Relaxed mode the insert runs inside a
// savepoint so a failing row does not poison the transaction on engines
// that abort it on error. The savepoint is released either way, so the
// nesting depth stays flat across a file.
func (l *Loader) insertRow(ctx context.Context, stmt string, args []any, relaxed bool) error {
	guarded := relaxed && l.Conn.Savepoint(ctx, rowSavepoint) == nil
	_, err := l.Conn.Exec(ctx, stmt, args...)
	if !guarded {
		return err
	}
	if err != nil {
		if rbErr := l.Conn.RollbackTo(ctx, rowSavepoint); rbErr != nil {
			l.Log.Debug().Err(rbErr).Msg("rollback to row savepoint failed")
		}
	}
	if relErr := l.Conn.Release(ctx, rowSavepoint); relErr != nil {
		l.Log.Debug().Err(relErr).Msg("release row savepoint failed")
	}
	return err
}

func (l *Loader) record(res Result) {
	metrics.RecordRow(l.Job, "deleted", res.Deleted)
	metrics.RecordRow(l.Job, "inserted", res.Inserted)
	metrics.RecordRow(l.Job, "dropped", res.Dropped)
	metrics.RecordRow(l.Job, "failed", res.Failed)
}

// rowArgs returns the insert arguments (trimmed batch values, then the extra
// values) and the trimmed batch values alone.
func rowArgs(rec map[string]string, cols []string, extra []any) ([]any, []string) {
	values := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(extra))
	for i, c := range cols {
		values[i] = strings.TrimSpace(rec[c])
		args = append(args, values[i])
	}
	args = append(args, extra...)
	return args, values
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func missingRequired(rec map[string]string, required []string) []string {
	var missing []string
	for _, c := range required {
		if strings.TrimSpace(rec[c]) == "" {
			missing = append(missing, c)
		}
	}
	return missing
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
