// Package probe is a dry run of the MIS loader: it decodes every eligible
// file of a folder with its layout and reports what a load would see,
// without touching a database. Files are decoded concurrently.
package probe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"flatload/internal/batch"
	"flatload/internal/fixedwidth"
	"flatload/internal/layout"
)

// File statuses.
const (
	StatusOK            = "ok"
	StatusUnknownLayout = "unknown_layout"
	StatusBadName       = "bad_name"
	StatusDecodeError   = "decode_error"
)

// FileReport describes one probed file.
type FileReport struct {
	Name      string
	Code      string
	Table     string
	Partition string
	Mode      layout.Mode
	Checksum  string
	Records   int
	BadLines  int
	Status    string
	Err       error
}

// Report lists probed files in folder order.
type Report struct {
	Folder string
	Files  []FileReport
}

// Counts returns the number of files per status.
func (r Report) Counts() map[string]int {
	out := make(map[string]int)
	for _, f := range r.Files {
		out[f.Status]++
	}
	return out
}

// WriteCSV renders the report as CSV with a header row.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"file", "record_type", "table", "partition", "mode", "records", "bad_lines", "checksum", "status", "error"})
	for _, f := range r.Files {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		_ = cw.Write([]string{
			f.Name, f.Code, f.Table, f.Partition, f.Mode.String(),
			strconv.Itoa(f.Records), strconv.Itoa(f.BadLines),
			f.Checksum, f.Status, msg,
		})
	}
	cw.Flush()
	return cw.Error()
}

// Prober decodes folders.
type Prober struct {
	Registry *layout.Registry
	Decoder  *fixedwidth.Decoder
	Naming   batch.Naming
	// Workers bounds concurrent decodes; zero means GOMAXPROCS.
	Workers int
	Log     zerolog.Logger
}

// New returns a Prober with the default naming convention.
func New(reg *layout.Registry, dec *fixedwidth.Decoder, log zerolog.Logger) *Prober {
	return &Prober{Registry: reg, Decoder: dec, Naming: batch.DefaultNaming(), Log: log}
}

// Probe decodes every eligible file of folder. Per-file failures are
// reported in the FileReport; the error is for an unreadable folder or a
// cancelled ctx.
func (p *Prober) Probe(ctx context.Context, folder string) (Report, error) {
	rep := Report{Folder: folder}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return rep, errors.Wrapf(err, "read folder %s", folder)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && p.Naming.Eligible(e.Name()) {
			names = append(names, e.Name())
		}
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rep.Files = make([]FileReport, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep.Files[i] = p.probeFile(filepath.Join(folder, name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}

	c := rep.Counts()
	p.Log.Info().
		Str("folder", folder).
		Int("files", len(rep.Files)).
		Int("ok", c[StatusOK]).
		Int("decode_errors", c[StatusDecodeError]).
		Int("unknown_layout", c[StatusUnknownLayout]).
		Msg("probe finished")
	return rep, nil
}

func (p *Prober) probeFile(path string) FileReport {
	fr := FileReport{Name: filepath.Base(path), Status: StatusBadName}
	fn, err := p.Naming.Parse(fr.Name)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Code, fr.Partition = fn.Code, fn.Partition
	if t, err := p.Naming.Table(fn.Code); err == nil {
		fr.Table = t
	}

	l, err := p.Registry.Lookup(fn.Code)
	if err != nil {
		fr.Status, fr.Err = StatusUnknownLayout, err
		return fr
	}
	fr.Mode = l.Mode

	fr.Status = StatusDecodeError
	data, err := os.ReadFile(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Checksum = fmt.Sprintf("%016x", xxh3.Hash(data))
	b, err := p.Decoder.Decode(data, l)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Records, fr.BadLines = b.Len(), len(b.BadLines)
	fr.Status = StatusOK
	return fr
}
