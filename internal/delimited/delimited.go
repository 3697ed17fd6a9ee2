// Package delimited reads header-first delimited text (the pipe-separated
// SCFF extracts) into string rows keyed by normalized column names.
//
// Reading is lenient: quotes are lazy, short rows are padded with empty
// values and rows wider than the header are reported as bad lines instead
// of failing the file.
package delimited

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-faster/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\ufeff"

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("delimited: no header row")

// LineError is one row that could not be read.
type LineError struct {
	Line int
	Err  error
}

// Table is the content of one delimited file. Rows[i] has exactly
// len(Header) values; Lines[i] is its 1-based source line.
type Table struct {
	Header   []string
	Rows     [][]string
	Lines    []int
	BadLines []LineError
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Row returns the source line and the values of row i keyed by header name.
func (t *Table) Row(i int) (int, map[string]string) {
	m := make(map[string]string, len(t.Header))
	for j, h := range t.Header {
		m[h] = t.Rows[i][j]
	}
	return t.Lines[i], m
}

// Read parses r with the given delimiter. The header row is normalized with
// NormalizeHeader; duplicate names get a numeric suffix.
func Read(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // widths are checked against the header below

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	t := &Table{Header: uniqueNames(StripHeaderBOM(header))}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				t.BadLines = append(t.BadLines, LineError{Line: pe.StartLine, Err: err})
				continue
			}
			return nil, errors.Wrap(err, "read row")
		}
		line, _ := cr.FieldPos(0)
		if len(rec) > len(t.Header) {
			t.BadLines = append(t.BadLines, LineError{
				Line: line,
				Err:  errors.Errorf("%d fields, header has %d", len(rec), len(t.Header)),
			})
			continue
		}
		row := make([]string, len(t.Header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
		t.Lines = append(t.Lines, line)
	}
	return t, nil
}

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// NormalizeHeader turns header text into an upper-case column name:
//  1. strip accents (NFD, remove Mn, NFC)
//  2. space, dash and dot become underscores
//  3. keep [A-Z0-9_], drop anything else
//  4. "COL" when nothing is left
func NormalizeHeader(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range strings.ToUpper(ascii) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "COL"
	}
	return b.String()
}

func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		seen[name]++
		if n := seen[name]; n > 1 {
			name += "_" + strconv.Itoa(n)
		}
		out[i] = name
	}
	return out
}
