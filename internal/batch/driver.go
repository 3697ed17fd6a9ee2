// Package batch runs one load of a feed folder: every eligible file is
// decoded with its record-type layout and loaded into its table, strictly
// one file after another, on the single connection of the run.
//
// File failures are counted and the run moves on; an abort stops the run,
// rolls back and drops the tables it created. In the default commit mode
// the whole run is one transaction committed at the end.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"

	"flatload/internal/ddl"
	"flatload/internal/fixedwidth"
	"flatload/internal/layout"
	"flatload/internal/loader"
	"flatload/internal/loaderr"
	"flatload/internal/metrics"
	"flatload/internal/runctx"
	"flatload/internal/schema"
	"flatload/internal/skiplog"
	"flatload/internal/storage"
)

// CommitMode decides the transaction boundaries of a run.
type CommitMode string

const (
	// CommitRun commits once after the last file; each file runs inside a
	// savepoint so a failed file undoes only its own work.
	CommitRun CommitMode = "run"
	// CommitFile commits every successfully loaded file on its own.
	CommitFile CommitMode = "file"
)

// ParseCommitMode maps "run"/"file" to a CommitMode. Empty means CommitRun.
func ParseCommitMode(s string) (CommitMode, error) {
	switch CommitMode(s) {
	case "", CommitRun:
		return CommitRun, nil
	case CommitFile:
		return CommitFile, nil
	}
	return CommitRun, errors.Errorf("unknown commit mode %q (want run or file)", s)
}

// File outcomes, also used as metric labels.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeErrored   = "errored"
	OutcomeSkipped   = "skipped"
)

const fileSavepoint = "flatload_file"

// FileResult reports one visited file.
type FileResult struct {
	Name      string
	Code      string
	Table     string
	Partition string
	Mode      layout.Mode
	// Checksum is the xxh3 hash of the raw file contents.
	Checksum string
	Records  int
	BadLines int
	Load     loader.Result
	Outcome  string
	Kind     loaderr.Kind
	Err      error
}

// Summary is the aggregate result of a run. Total counts processed files
// (succeeded and errored); skipped files are counted apart.
type Summary struct {
	RunID     string
	Succeeded int
	Errored   int
	Skipped   int
	Total     int
	Aborted   bool
	// Committed reports whether any file's work is durable. After an abort
	// in file commit mode it is true when earlier files survive.
	Committed bool
	// CommittedFiles counts the succeeded files whose work is durable.
	CommittedFiles int
	Files          []FileResult
	Duration       time.Duration
}

// OK reports whether the run committed and loaded at least one file.
func (s Summary) OK() bool {
	return s.Committed && !s.Aborted && s.Succeeded > 0
}

// beforeFile runs before every eligible file. Tests use it to abort between
// files.
var beforeFile = func(rc *runctx.RunContext, name string) {}

// Driver loads a folder of fixed-width files.
type Driver struct {
	Conn     storage.TxConn
	Registry *layout.Registry
	Decoder  *fixedwidth.Decoder
	Loader   *loader.Loader
	Log      zerolog.Logger
	Naming   Naming

	CommitMode      CommitMode
	PartitionColumn string
	Types           ddl.TypeRule
	Indexes         []string
	// Skips receives undecodable lines; the loader has its own reference
	// for dropped rows.
	Skips *skiplog.Log
	Job   string
}

// New returns a Driver with the MIS defaults: DefaultNaming, run commit
// mode, GI03_TERM_ID partitions, MIS column typing and index candidates.
func New(conn storage.TxConn, reg *layout.Registry, dec *fixedwidth.Decoder, log zerolog.Logger) *Driver {
	return &Driver{
		Conn:            conn,
		Registry:        reg,
		Decoder:         dec,
		Loader:          loader.New(conn, log),
		Log:             log,
		Naming:          DefaultNaming(),
		CommitMode:      CommitRun,
		PartitionColumn: "GI03_TERM_ID",
		Types:           ddl.MISTypes,
		Indexes:         schema.MISIndexColumns,
		Job:             "flatload",
	}
}

// Run loads every eligible file of folder. The driver owns d.Conn for the
// run and always closes it before returning.
//
// The returned error is nil when the run finished, even if some files
// failed; it is a loaderr.Abort error when the run was aborted (rc.Abort or
// ctx cancellation) and a loaderr.Connection error when the transaction
// could not be opened or committed.
func (d *Driver) Run(ctx context.Context, rc *runctx.RunContext, folder string) (sum Summary, err error) {
	start := time.Now()
	rc.Reset()
	stop := rc.AbortOnDone(ctx)
	defer stop()

	sum.RunID = rc.ID()
	log := d.Log.With().Str("run_id", rc.ID()).Str("folder", folder).Logger()
	defer d.teardown(log)
	defer func() {
		sum.Duration = time.Since(start)
		metrics.RecordStep(d.Job, "run", err, sum.Duration)
	}()

	entries, err := os.ReadDir(folder)
	if err != nil {
		return sum, errors.Wrapf(err, "read folder %s", folder)
	}

	// the transaction outlives ctx; cancellation goes through the abort path
	if d.CommitMode != CommitFile {
		if err := d.Conn.Begin(context.WithoutCancel(ctx)); err != nil {
			return sum, loaderr.New(loaderr.Connection, err)
		}
	}

	log.Info().Str("commit_mode", string(d.CommitMode)).Int("entries", len(entries)).Msg("run started")
	for _, e := range entries {
		if e.IsDir() || !d.Naming.Eligible(e.Name()) {
			continue
		}
		beforeFile(rc, e.Name())
		if rc.Aborted() || ctx.Err() != nil {
			rc.Abort()
			break
		}

		fr, err := d.loadFile(ctx, rc, log, folder, e.Name())
		if err != nil {
			return sum, err
		}
		sum.Files = append(sum.Files, fr)
		metrics.RecordFile(d.Job, fr.Outcome)
		switch fr.Outcome {
		case OutcomeSkipped:
			sum.Skipped++
			continue
		case OutcomeSucceeded:
			sum.Succeeded++
		default:
			sum.Errored++
		}
		sum.Total++
		if fr.Kind == loaderr.Abort {
			break
		}
	}

	if rc.Aborted() {
		sum.Aborted = true
		_ = loader.Cleanup(ctx, d.Conn, rc, d.Log)
		if d.CommitMode == CommitFile {
			sum.CommittedFiles = survivors(rc, sum.Files)
		}
		sum.Committed = sum.CommittedFiles > 0
		ev := log.Warn().
			Int("succeeded", sum.Succeeded).
			Int("errored", sum.Errored).
			Int("committed_files", sum.CommittedFiles)
		if sum.Committed {
			ev.Msg("run aborted; earlier files stay committed")
		} else {
			ev.Msg("run aborted; nothing committed")
		}
		return sum, loaderr.New(loaderr.Abort, runctx.ErrAborted)
	}

	if d.CommitMode != CommitFile {
		if err := d.Conn.Commit(); err != nil {
			log.Error().Err(err).Msg("commit failed")
			return sum, loaderr.New(loaderr.Connection, errors.Wrap(err, "commit"))
		}
	}
	sum.Committed = true
	sum.CommittedFiles = sum.Succeeded
	log.Info().
		Int("succeeded", sum.Succeeded).
		Int("errored", sum.Errored).
		Int("skipped", sum.Skipped).
		Int("total", sum.Total).
		Msg("run committed")
	return sum, nil
}

// survivors counts the files committed one by one before an abort. Files
// whose table this run created are gone with the dropped table.
func survivors(rc *runctx.RunContext, files []FileResult) int {
	n := 0
	for _, f := range files {
		if f.Outcome == OutcomeSucceeded && !rc.WasCreated(f.Table) {
			n++
		}
	}
	return n
}

// loadFile decodes and loads one file. File-level failures are reported in
// the FileResult; the returned error is reserved for failures that end the
// run.
func (d *Driver) loadFile(ctx context.Context, rc *runctx.RunContext, runLog zerolog.Logger, folder, name string) (FileResult, error) {
	fr := FileResult{Name: name, Outcome: OutcomeSkipped}
	log := runLog.With().Str("file", name).Logger()

	fn, err := d.Naming.Parse(name)
	if err != nil {
		log.Warn().Err(err).Msg("file skipped")
		return fr, nil
	}
	fr.Code, fr.Partition = fn.Code, fn.Partition

	l, err := d.Registry.Lookup(fn.Code)
	if err != nil {
		fr.Kind = loaderr.UnknownLayout
		log.Warn().Str("record_type", fn.Code).Msg("no layout for record type; file skipped")
		return fr, nil
	}
	fr.Mode = l.Mode

	table, err := d.Naming.Table(fn.Code)
	if err != nil {
		log.Warn().Err(err).Msg("file skipped")
		return fr, nil
	}
	fr.Table = table
	log = log.With().Str("record_type", fn.Code).Str("table", table).Str("partition", fn.Partition).Logger()

	if d.CommitMode == CommitFile {
		if err := d.Conn.Begin(context.WithoutCancel(ctx)); err != nil {
			return fr, loaderr.New(loaderr.Connection, err)
		}
	} else if err := d.Conn.Savepoint(ctx, fileSavepoint); err != nil {
		log.Debug().Err(err).Msg("file savepoint unavailable")
	}

	log.Info().Str("mode", l.Mode.String()).Msg("processing file")
	fr.Outcome = OutcomeErrored
	if err := d.decodeAndLoad(ctx, rc, log, filepath.Join(folder, name), l, &fr); err != nil {
		fr.Err = err
		fr.Kind = loaderr.KindOf(err)
		if fr.Kind == loaderr.Abort {
			return fr, nil
		}
		log.Error().Err(err).Str("kind", fr.Kind.String()).Msg("file failed")
		d.undoFile(ctx, log)
		return fr, nil
	}

	if d.CommitMode == CommitFile {
		if err := d.Conn.Commit(); err != nil {
			return fr, loaderr.New(loaderr.Connection, errors.Wrapf(err, "commit %s", name))
		}
	} else if err := d.Conn.Release(ctx, fileSavepoint); err != nil {
		log.Debug().Err(err).Msg("release file savepoint failed")
	}
	fr.Outcome = OutcomeSucceeded
	return fr, nil
}

func (d *Driver) decodeAndLoad(ctx context.Context, rc *runctx.RunContext, log zerolog.Logger, path string, l layout.Layout, fr *FileResult) error {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		err = loaderr.New(loaderr.Decode, errors.Wrap(err, "read")).WithFile(fr.Name)
		metrics.RecordStep(d.Job, "decode", err, time.Since(start))
		return err
	}
	fr.Checksum = fmt.Sprintf("%016x", xxh3.Hash(data))

	b, err := d.Decoder.Decode(data, l)
	metrics.RecordStep(d.Job, "decode", err, time.Since(start))
	if err != nil {
		return loaderr.Annotate(err, fr.Name)
	}
	fr.Records = b.Len()
	fr.BadLines = len(b.BadLines)
	metrics.RecordRow(d.Job, "decoded", int64(b.Len()))
	metrics.RecordRow(d.Job, "bad_lines", int64(len(b.BadLines)))
	for _, bl := range b.BadLines {
		d.Skips.Add(skiplog.ReasonBadLine, fr.Name, fr.Table, bl.Line, bl.Err.Error())
	}
	log.Debug().
		Str("checksum", fr.Checksum).
		Int("records", fr.Records).
		Int("bad_lines", fr.BadLines).
		Msg("file decoded")

	sp := fileSavepoint
	if d.CommitMode == CommitFile {
		sp = ""
	}
	start = time.Now()
	res, err := d.Loader.Load(ctx, rc, loader.Target{
		File:            fr.Name,
		Table:           fr.Table,
		Columns:         b.Columns,
		Required:        b.Required,
		PartitionColumn: d.PartitionColumn,
		PartitionValue:  fr.Partition,
		Types:           d.Types,
		Indexes:         d.Indexes,
		Mode:            b.Mode,
		Savepoint:       sp,
	}, b)
	metrics.RecordStep(d.Job, "load", err, time.Since(start))
	fr.Load = res
	return err
}

// undoFile discards the work of a failed file: back to the file savepoint
// in run mode, a full rollback in file mode.
func (d *Driver) undoFile(ctx context.Context, log zerolog.Logger) {
	if d.CommitMode == CommitFile {
		if err := d.Conn.Rollback(); err != nil && !storage.IsClosed(err) {
			log.Warn().Err(err).Msg("rollback failed")
		}
		return
	}
	if err := d.Conn.RollbackTo(ctx, fileSavepoint); err != nil {
		log.Warn().Err(err).Msg("partial file work could not be rolled back")
		return
	}
	if err := d.Conn.Release(ctx, fileSavepoint); err != nil {
		log.Debug().Err(err).Msg("release file savepoint failed")
	}
}

// teardown closes the connection. The "already closed" class is expected
// after an abort and is not reported.
func (d *Driver) teardown(log zerolog.Logger) {
	if err := d.Conn.Close(); err != nil && !storage.IsClosed(err) {
		log.Warn().Err(err).Msg("close connection failed")
	}
}
