// Package fixedwidth decodes fixed-width positional extracts into records
// using a layout.Layout.
//
// Offsets are character positions, not bytes: input is first converted to
// UTF-8 (from the configured charset) and lines are sliced as runes. Every
// non-blank line is right-padded with spaces or truncated to the layout's
// maximum width before slicing, so a short or overlong line never produces an
// out-of-range slice. Values are returned verbatim; trimming is left to the
// caller.
package fixedwidth

import (
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"

	"flatload/internal/layout"
	"flatload/internal/loaderr"
)

// Record maps an upper-cased field name to its raw value. A value is never
// missing: out-of-range data decodes as an empty string.
type Record map[string]string

// LineError describes one line that could not be decoded in Relaxed mode.
type LineError struct {
	Line int
	Err  error
}

// Batch is the decoded content of one file. Records keep input line order;
// Lines[i] is the 1-based source line of Records[i].
type Batch struct {
	Code     string
	Mode     layout.Mode
	Columns  []string
	Required []string
	Records  []Record
	Lines    []int
	BadLines []LineError
}

// Len returns the number of decoded records.
func (b *Batch) Len() int { return len(b.Records) }

// Row returns the source line and values of record i.
func (b *Batch) Row(i int) (int, map[string]string) { return b.Lines[i], b.Records[i] }

// Decoder turns raw file contents into a Batch.
type Decoder struct {
	Log zerolog.Logger

	// Charset converts input bytes to UTF-8; nil means the input already is
	// UTF-8.
	Charset encoding.Encoding
}

// NewDecoder returns a Decoder for the given charset name (see Charset).
func NewDecoder(log zerolog.Logger, charset string) (*Decoder, error) {
	enc, err := Charset(charset)
	if err != nil {
		return nil, err
	}
	return &Decoder{Log: log, Charset: enc}, nil
}

const utf8BOM = "\ufeff"

// Decode decodes data with l. In Standard mode the first bad line aborts the
// whole file with a loaderr.Decode error. In Relaxed mode bad lines are
// logged, recorded in Batch.BadLines, and skipped.
func (d *Decoder) Decode(data []byte, l layout.Layout) (*Batch, error) {
	if d.Charset != nil {
		conv, err := d.Charset.NewDecoder().Bytes(data)
		if err != nil {
			return nil, loaderr.New(loaderr.Decode, errors.Wrap(err, "charset"))
		}
		data = conv
	}

	text := strings.TrimPrefix(string(data), utf8BOM)
	lines := splitLines(text)
	width := l.MaxWidth()
	relaxed := l.Mode == layout.Relaxed

	b := &Batch{
		Code:     l.Code,
		Mode:     l.Mode,
		Columns:  l.Columns(),
		Required: l.RequiredColumns(),
		Records:  make([]Record, 0, len(lines)),
		Lines:    make([]int, 0, len(lines)),
	}

	for i, line := range lines {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := decodeLine(line, l, width)
		if err != nil {
			if !relaxed {
				return nil, loaderr.New(loaderr.Decode, err).WithRow(lineNo)
			}
			d.Log.Error().
				Str("record_type", l.Code).
				Int("row", lineNo).
				Err(err).
				Msg("skipping undecodable line")
			b.BadLines = append(b.BadLines, LineError{Line: lineNo, Err: err})
			continue
		}
		b.Records = append(b.Records, rec)
		b.Lines = append(b.Lines, lineNo)
	}
	return b, nil
}

// splitLines splits on LF (dropping a trailing CR from each line); input
// without any LF is split on CR instead.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	if strings.IndexByte(text, '\n') < 0 {
		return strings.Split(text, "\r")
	}
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}

func decodeLine(line string, l layout.Layout, width int) (Record, error) {
	if !utf8.ValidString(line) {
		return nil, errors.New("invalid UTF-8 in line")
	}
	runes := fitWidth([]rune(line), width)

	rec := make(Record, len(l.Fields))
	for _, f := range l.Fields {
		name := strings.ToUpper(f.Name)
		if f.Start < 0 || f.End < f.Start {
			return nil, errors.Errorf("field %s: invalid range [%d,%d)", name, f.Start, f.End)
		}
		rec[name] = string(runes[f.Start:f.End])
	}
	return rec, nil
}

// fitWidth right-pads r with spaces or truncates it to exactly width runes.
func fitWidth(r []rune, width int) []rune {
	if len(r) >= width {
		return r[:width]
	}
	out := make([]rune, width)
	copy(out, r)
	for i := len(r); i < width; i++ {
		out[i] = ' '
	}
	return out
}
