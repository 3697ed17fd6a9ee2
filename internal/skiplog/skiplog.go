// Package skiplog records rows that were read but not loaded: lines the
// decoder rejected, rows dropped by validation and rows whose insert failed
// in relaxed mode. Entries are appended to a CSV file so an operator can
// inspect or replay them without re-running the load.
package skiplog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/go-faster/errors"
)

// Reasons a row is skipped.
const (
	ReasonBadLine         = "bad_line"
	ReasonAllEmpty        = "all_empty"
	ReasonMissingRequired = "missing_required"
	ReasonInsertFailed    = "insert_failed"
)

// Header is the first row of every skip log.
var Header = []string{"reason", "file", "table", "row", "detail"}

// Log is a CSV skip log. A nil *Log discards everything, so callers need no
// nil checks when skip logging is disabled.
type Log struct {
	mu      sync.Mutex
	reasons map[string]int
	f       *os.File
	w       *csv.Writer
}

// New creates path (and its parent directories) and writes the header.
func New(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create dir %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "write header")
	}
	return &Log{reasons: make(map[string]int), f: f, w: w}, nil
}

// Add appends one skipped row.
func (l *Log) Add(reason, file, table string, row int, detail string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reasons[reason]++
	_ = l.w.Write([]string{reason, file, table, strconv.Itoa(row), detail})
}

// Counts returns a copy of the per-reason totals.
func (l *Log) Counts() map[string]int {
	out := map[string]int{}
	if l == nil {
		return out
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

// Close flushes and closes the file.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		_ = l.f.Close()
		return errors.Wrap(err, "flush skip log")
	}
	return l.f.Close()
}
