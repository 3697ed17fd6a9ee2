// Package loaderr defines the closed set of failure kinds a load run can
// produce and an error type that carries the kind together with enough
// context (file, table, row) to diagnose a failure from the logs alone.
package loaderr

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// Kind classifies a load failure.
type Kind int

const (
	// Unknown is any error that was never classified.
	Unknown Kind = iota
	// UnknownLayout: the record-type code has no registered layout.
	UnknownLayout
	// Decode: a line could not be sliced or its encoding is invalid.
	Decode
	// Schema: table or index DDL failed.
	Schema
	// Insert: a single row insert failed.
	Insert
	// Abort: the operator requested cancellation.
	Abort
	// Connection: the database connection could not be established or was lost.
	Connection
)

var kindNames = [...]string{
	Unknown:       "unknown",
	UnknownLayout: "unknown_layout",
	Decode:        "decode",
	Schema:        "schema",
	Insert:        "insert",
	Abort:         "abort",
	Connection:    "connection",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure. Row is a 1-based line or row index; zero
// means "not row specific".
type Error struct {
	Kind  Kind
	File  string
	Table string
	Row   int
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.File != "" {
		sb.WriteString(" file=")
		sb.WriteString(e.File)
	}
	if e.Table != "" {
		sb.WriteString(" table=")
		sb.WriteString(e.Table)
	}
	if e.Row > 0 {
		fmt.Fprintf(&sb, " row=%d", e.Row)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind. A nil err yields a bare kind error.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

// WithFile returns a copy of e annotated with the file name.
func (e *Error) WithFile(file string) *Error {
	c := *e
	c.File = file
	return &c
}

// WithTable returns a copy of e annotated with the table name.
func (e *Error) WithTable(table string) *Error {
	c := *e
	c.Table = table
	return &c
}

// WithRow returns a copy of e annotated with the row index.
func (e *Error) WithRow(row int) *Error {
	c := *e
	c.Row = row
	return &c
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return Unknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Annotate fills in File on the first *Error in err's chain when it is not
// set yet. Unclassified errors are returned unchanged.
func Annotate(err error, file string) error {
	var le *Error
	if !errors.As(err, &le) || le.File != "" {
		return err
	}
	return le.WithFile(file)
}
