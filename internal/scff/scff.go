// Package scff loads the pipe-delimited financial aid extracts. The root
// folder holds one directory per academic year ("24-25", "2425", ...); each
// year's Latest/ directory holds <TABLE>_..._<YYMMDD>.txt files.
//
// Every file replaces the academic year's rows in SCFF_<TABLE>; each row is
// tagged with ACYR and DATESTAMP. A year is committed once all its files
// are processed.
package scff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding"

	"flatload/internal/ddl"
	"flatload/internal/delimited"
	"flatload/internal/layout"
	"flatload/internal/loader"
	"flatload/internal/loaderr"
	"flatload/internal/metrics"
	"flatload/internal/runctx"
	"flatload/internal/skiplog"
	"flatload/internal/storage"
)

// Partition and tag columns added to every SCFF table.
const (
	ColumnACYR      = "ACYR"
	ColumnDatestamp = "DATESTAMP"
)

// IndexColumns are the SCFF index candidates.
var IndexColumns = []string{"STUDENT_ID", ColumnACYR}

// File outcomes, also used as metric labels.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeErrored   = "errored"
	OutcomeSkipped   = "skipped"
)

const fileSavepoint = "flatload_scff_file"

var datestampRE = regexp.MustCompile(`(?i)_(\d{6})\.txt$`)

// ParseACYR derives the academic year from a year folder name: the first two
// digits are the year within 2000.
func ParseACYR(folder string) (string, error) {
	if len(folder) < 2 {
		return "", errors.Errorf("folder %q: no year prefix", folder)
	}
	yy, err := strconv.Atoi(folder[:2])
	if err != nil || yy < 0 {
		return "", errors.Errorf("folder %q: no year prefix", folder)
	}
	return strconv.Itoa(2000 + yy), nil
}

// Datestamp returns the trailing _YYMMDD of a file name, or "".
func Datestamp(name string) string {
	if m := datestampRE.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

// FileResult reports one visited file.
type FileResult struct {
	Name      string
	Table     string
	Datestamp string
	Checksum  string
	Records   int
	BadLines  int
	Load      loader.Result
	Outcome   string
	Kind      loaderr.Kind
	Err       error
}

// YearResult reports one academic year folder.
type YearResult struct {
	Folder    string
	ACYR      string
	Files     []FileResult
	Committed bool
}

// Summary is the aggregate result of a run.
type Summary struct {
	RunID     string
	Years     []YearResult
	Succeeded int
	Errored   int
	Skipped   int
	Aborted   bool
	Duration  time.Duration
}

// beforeFile runs before every eligible file. Tests use it to abort.
var beforeFile = func(rc *runctx.RunContext, name string) {}

// Loader loads an SCFF root folder.
type Loader struct {
	Conn   storage.TxConn
	Loader *loader.Loader
	Log    zerolog.Logger

	TablePrefix string
	LatestDir   string
	Extension   string
	Comma       rune
	// Charset converts file contents to UTF-8; nil means UTF-8 input.
	Charset encoding.Encoding
	// SkipStale skips a file whose datestamp is not newer than the highest
	// DATESTAMP already loaded in its table.
	SkipStale bool
	Types     ddl.TypeRule
	Indexes   []string
	Skips     *skiplog.Log
	Job       string
}

// New returns a Loader with the SCFF defaults.
func New(conn storage.TxConn, log zerolog.Logger) *Loader {
	return &Loader{
		Conn:        conn,
		Loader:      loader.New(conn, log),
		Log:         log,
		TablePrefix: "SCFF",
		LatestDir:   "Latest",
		Extension:   ".txt",
		Comma:       '|',
		Types:       ddl.SCFFTypes,
		Indexes:     IndexColumns,
		Job:         "flatload_scff",
	}
}

// Table returns the target table for a file: the prefix plus the part of the
// name before the first underscore.
func (l *Loader) Table(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base, _, _ = strings.Cut(base, "_")
	return strings.ToUpper(l.TablePrefix + "_" + base)
}

// Run loads every academic year under root, committing per year. It owns
// l.Conn for the run and closes it before returning. The error is a
// loaderr.Abort error when the run was aborted.
func (l *Loader) Run(ctx context.Context, rc *runctx.RunContext, root string) (sum Summary, err error) {
	start := time.Now()
	rc.Reset()
	stop := rc.AbortOnDone(ctx)
	defer stop()

	sum.RunID = rc.ID()
	log := l.Log.With().Str("run_id", rc.ID()).Str("root", root).Logger()
	defer func() {
		if err := l.Conn.Close(); err != nil && !storage.IsClosed(err) {
			log.Warn().Err(err).Msg("close connection failed")
		}
	}()
	defer func() {
		sum.Duration = time.Since(start)
		metrics.RecordStep(l.Job, "run", err, sum.Duration)
	}()

	entries, err := os.ReadDir(root)
	if err != nil {
		return sum, errors.Wrapf(err, "read root %s", root)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if rc.Aborted() || ctx.Err() != nil {
			rc.Abort()
			break
		}
		acyr, err := ParseACYR(e.Name())
		if err != nil {
			log.Warn().Err(err).Msg("year folder skipped")
			continue
		}
		latest := filepath.Join(root, e.Name(), l.LatestDir)
		if fi, err := os.Stat(latest); err != nil || !fi.IsDir() {
			log.Error().Str("folder", e.Name()).Msg("no " + l.LatestDir + " folder for academic year")
			continue
		}

		yr, err := l.loadYear(ctx, rc, log.With().Str("acyr", acyr).Logger(), e.Name(), acyr, latest)
		sum.Years = append(sum.Years, yr)
		for _, f := range yr.Files {
			switch f.Outcome {
			case OutcomeSucceeded:
				sum.Succeeded++
			case OutcomeSkipped:
				sum.Skipped++
			default:
				sum.Errored++
			}
		}
		if err != nil {
			return sum, err
		}
	}

	if rc.Aborted() {
		sum.Aborted = true
		_ = loader.Cleanup(ctx, l.Conn, rc, l.Log)
		log.Warn().Msg("scff run aborted")
		return sum, loaderr.New(loaderr.Abort, runctx.ErrAborted)
	}
	log.Info().
		Int("years", len(sum.Years)).
		Int("succeeded", sum.Succeeded).
		Int("errored", sum.Errored).
		Int("skipped", sum.Skipped).
		Msg("scff run finished")
	return sum, nil
}

// loadYear loads one Latest folder in one transaction. On abort it returns
// without committing; the caller cleans up.
func (l *Loader) loadYear(ctx context.Context, rc *runctx.RunContext, log zerolog.Logger, folder, acyr, dir string) (YearResult, error) {
	yr := YearResult{Folder: folder, ACYR: acyr}
	files, err := os.ReadDir(dir)
	if err != nil {
		log.Error().Err(err).Msg("read year folder")
		return yr, nil
	}
	if err := l.Conn.Begin(context.WithoutCancel(ctx)); err != nil {
		return yr, loaderr.New(loaderr.Connection, err)
	}
	log.Info().Str("folder", folder).Msg("loading academic year")

	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), l.Extension) {
			continue
		}
		beforeFile(rc, f.Name())
		if rc.Aborted() || ctx.Err() != nil {
			rc.Abort()
			return yr, nil
		}
		fr := l.loadFile(ctx, rc, log, filepath.Join(dir, f.Name()), acyr)
		yr.Files = append(yr.Files, fr)
		metrics.RecordFile(l.Job, fr.Outcome)
		if fr.Kind == loaderr.Abort {
			return yr, nil
		}
	}

	if err := l.Conn.Commit(); err != nil {
		return yr, loaderr.New(loaderr.Connection, errors.Wrapf(err, "commit acyr %s", acyr))
	}
	yr.Committed = true
	log.Info().Int("files", len(yr.Files)).Msg("academic year committed")
	return yr, nil
}

func (l *Loader) loadFile(ctx context.Context, rc *runctx.RunContext, yearLog zerolog.Logger, path, acyr string) FileResult {
	name := filepath.Base(path)
	fr := FileResult{
		Name:      name,
		Table:     l.Table(name),
		Datestamp: Datestamp(name),
		Outcome:   OutcomeErrored,
	}
	log := yearLog.With().Str("file", name).Str("table", fr.Table).Str("datestamp", fr.Datestamp).Logger()
	if fr.Datestamp == "" {
		log.Warn().Msg("file name carries no datestamp")
	}

	if l.SkipStale && fr.Datestamp != "" {
		newer, err := l.isNewer(ctx, fr.Table, fr.Datestamp)
		if err != nil {
			log.Error().Err(err).Msg("datestamp check failed; loading anyway")
		} else if !newer {
			fr.Outcome = OutcomeSkipped
			log.Info().Msg("file not newer than loaded data; skipped")
			return fr
		}
	}

	if err := l.Conn.Savepoint(ctx, fileSavepoint); err != nil {
		log.Debug().Err(err).Msg("file savepoint unavailable")
	}
	log.Info().Msg("processing file")
	if err := l.decodeAndLoad(ctx, rc, path, acyr, &fr); err != nil {
		fr.Err = err
		fr.Kind = loaderr.KindOf(err)
		if fr.Kind == loaderr.Abort {
			return fr
		}
		log.Error().Err(err).Str("kind", fr.Kind.String()).Msg("file failed")
		if err := l.Conn.RollbackTo(ctx, fileSavepoint); err != nil {
			log.Warn().Err(err).Msg("partial file work could not be rolled back")
		} else if err := l.Conn.Release(ctx, fileSavepoint); err != nil {
			log.Debug().Err(err).Msg("release file savepoint failed")
		}
		return fr
	}
	if err := l.Conn.Release(ctx, fileSavepoint); err != nil {
		log.Debug().Err(err).Msg("release file savepoint failed")
	}
	fr.Outcome = OutcomeSucceeded
	return fr
}

func (l *Loader) decodeAndLoad(ctx context.Context, rc *runctx.RunContext, path, acyr string, fr *FileResult) error {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err == nil && l.Charset != nil {
		data, err = l.Charset.NewDecoder().Bytes(data)
	}
	if err != nil {
		err = loaderr.New(loaderr.Decode, errors.Wrap(err, "read")).WithFile(fr.Name)
		metrics.RecordStep(l.Job, "decode", err, time.Since(start))
		return err
	}
	fr.Checksum = fmt.Sprintf("%016x", xxh3.Hash(data))

	tbl, err := delimited.Read(bytes.NewReader(data), l.Comma)
	metrics.RecordStep(l.Job, "decode", err, time.Since(start))
	if err != nil {
		return loaderr.New(loaderr.Decode, err).WithFile(fr.Name)
	}
	fr.Records = tbl.Len()
	fr.BadLines = len(tbl.BadLines)
	metrics.RecordRow(l.Job, "decoded", int64(tbl.Len()))
	metrics.RecordRow(l.Job, "bad_lines", int64(len(tbl.BadLines)))
	for _, bl := range tbl.BadLines {
		l.Skips.Add(skiplog.ReasonBadLine, fr.Name, fr.Table, bl.Line, bl.Err.Error())
	}

	// the tag columns always come from the folder and file name
	cols := make([]string, 0, len(tbl.Header))
	for _, h := range tbl.Header {
		if h != ColumnACYR && h != ColumnDatestamp {
			cols = append(cols, h)
		}
	}

	start = time.Now()
	res, err := l.Loader.Load(ctx, rc, loader.Target{
		File:            fr.Name,
		Table:           fr.Table,
		Columns:         cols,
		PartitionColumn: ColumnACYR,
		PartitionValue:  acyr,
		Extra: []loader.Column{
			{Name: ColumnACYR, Value: acyr},
			{Name: ColumnDatestamp, Value: fr.Datestamp},
		},
		Types:     l.Types,
		Indexes:   l.Indexes,
		Mode:      layout.Relaxed,
		Savepoint: fileSavepoint,
	}, tbl)
	metrics.RecordStep(l.Job, "load", err, time.Since(start))
	fr.Load = res
	return err
}

// isNewer reports whether datestamp is above the highest DATESTAMP in table.
// A missing table or column counts as newer.
func (l *Loader) isNewer(ctx context.Context, table, datestamp string) (bool, error) {
	cols, err := l.Loader.Schema.TableColumns(ctx, table)
	if err != nil {
		return true, err
	}
	found := false
	for _, c := range cols {
		if c == ColumnDatestamp {
			found = true
			break
		}
	}
	if !found {
		return true, nil
	}

	d := l.Conn.Dialect()
	q := "SELECT MAX(" + d.QuoteIdent(ColumnDatestamp) + ") FROM " + storage.QualifiedName(d, l.Conn.Schema(), table)
	out, err := l.Conn.QueryStrings(ctx, q)
	if err != nil {
		return true, err
	}
	if len(out) == 0 || strings.TrimSpace(out[0]) == "" {
		return true, nil
	}
	have, err := strconv.Atoi(strings.TrimSpace(out[0]))
	if err != nil {
		return true, errors.Wrapf(err, "parse max datestamp %q", out[0])
	}
	want, err := strconv.Atoi(datestamp)
	if err != nil {
		return true, err
	}
	return want > have, nil
}
