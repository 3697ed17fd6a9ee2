package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"flatload/internal/loaderr"
)

// Conn is the capability the schema reconciler and the loader need from the
// database: statement execution inside the run's transaction, single-column
// catalog reads, savepoints, and teardown.
type Conn interface {
	Dialect() Dialect
	Schema() string
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	QueryStrings(ctx context.Context, query string, args ...any) ([]string, error)
	Savepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error
	Rollback() error
	Close() error
}

// TxConn is a Conn whose transaction the batch driver controls.
type TxConn interface {
	Conn
	Begin(ctx context.Context) error
	Commit() error
	InTx() bool
}

// Config selects and configures a backend.
type Config struct {
	Kind   string
	DSN    string
	Schema string
	// PingTimeout bounds the connectivity check in Open; zero means 10s.
	PingTimeout time.Duration
}

// Session is one run's exclusive database connection: a pool reduced to a
// single pinned connection plus at most one open transaction.
type Session struct {
	db      *sql.DB
	conn    *sql.Conn
	tx      *sql.Tx
	dialect Dialect
	schema  string
	closed  bool
}

var _ TxConn = (*Session)(nil)

// Open looks up the dialect for cfg.Kind, opens the pool and pins one
// connection. Any failure is a loaderr.Connection error.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	d, err := Lookup(cfg.Kind)
	if err != nil {
		return nil, loaderr.New(loaderr.Connection, err)
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, loaderr.Newf(loaderr.Connection, "%s: DSN must not be empty", d.Name())
	}
	db, err := sql.Open(d.DriverName(), cfg.DSN)
	if err != nil {
		return nil, loaderr.New(loaderr.Connection, errors.Wrapf(err, "%s: open", d.Name()))
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, loaderr.New(loaderr.Connection, errors.Wrapf(err, "%s: ping", d.Name()))
	}

	s, err := NewSession(ctx, db, d, cfg.Schema)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSession pins one connection from db. An empty schema falls back to the
// dialect default. The session owns db from here on.
func NewSession(ctx context.Context, db *sql.DB, d Dialect, schema string) (*Session, error) {
	db.SetMaxOpenConns(1)
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, loaderr.New(loaderr.Connection, errors.Wrapf(err, "%s: acquire connection", d.Name()))
	}
	if strings.TrimSpace(schema) == "" {
		schema = d.DefaultSchema()
	}
	return &Session{db: db, conn: conn, dialect: d, schema: schema}, nil
}

func (s *Session) Dialect() Dialect { return s.dialect }
func (s *Session) Schema() string   { return s.schema }
func (s *Session) InTx() bool       { return s.tx != nil }

// Begin opens the session's transaction.
func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return sql.ErrConnDone
	}
	if s.tx != nil {
		return errors.New("storage: transaction already open")
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	s.tx = tx
	return nil
}

// Commit commits the open transaction. Without one it returns sql.ErrTxDone.
func (s *Session) Commit() error {
	if s.tx == nil {
		return sql.ErrTxDone
	}
	tx := s.tx
	s.tx = nil
	return tx.Commit()
}

// Rollback rolls back the open transaction. Without one it returns
// sql.ErrTxDone.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return sql.ErrTxDone
	}
	tx := s.tx
	s.tx = nil
	return tx.Rollback()
}

// Exec runs a statement in the open transaction (or directly on the pinned
// connection when none is open) and returns the affected row count where the
// driver reports one.
func (s *Session) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if s.closed {
		return 0, sql.ErrConnDone
	}
	var (
		res sql.Result
		err error
	)
	if s.tx != nil {
		res, err = s.tx.ExecContext(ctx, query, args...)
	} else {
		res, err = s.conn.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		// DDL on some drivers has no row count.
		return 0, nil
	}
	return n, nil
}

// QueryStrings runs a query and returns its first column; NULLs read as "".
func (s *Session) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if s.closed {
		return nil, sql.ErrConnDone
	}
	var (
		rows *sql.Rows
		err  error
	)
	if s.tx != nil {
		rows, err = s.tx.QueryContext(ctx, query, args...)
	} else {
		rows, err = s.conn.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v.String)
	}
	return out, rows.Err()
}

// Savepoint marks a savepoint in the open transaction.
func (s *Session) Savepoint(ctx context.Context, name string) error {
	if s.tx == nil {
		return errors.New("storage: savepoint outside transaction")
	}
	_, err := s.tx.ExecContext(ctx, s.dialect.SavepointSQL(name))
	return err
}

// RollbackTo undoes work since the named savepoint; the transaction stays
// open.
func (s *Session) RollbackTo(ctx context.Context, name string) error {
	if s.tx == nil {
		return errors.New("storage: rollback to savepoint outside transaction")
	}
	_, err := s.tx.ExecContext(ctx, s.dialect.RollbackToSQL(name))
	return err
}

// Release drops the named savepoint and keeps its work. It is a no-op on
// dialects without a release statement.
func (s *Session) Release(ctx context.Context, name string) error {
	if s.tx == nil {
		return errors.New("storage: release savepoint outside transaction")
	}
	stmt := s.dialect.ReleaseSQL(name)
	if stmt == "" {
		return nil
	}
	_, err := s.tx.ExecContext(ctx, stmt)
	return err
}

// Close rolls back any open transaction and releases the connection and the
// pool, returning the first failure. Closing an already closed session
// returns sql.ErrConnDone.
func (s *Session) Close() error {
	if s.closed {
		return sql.ErrConnDone
	}
	s.closed = true

	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}
	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			keep(errors.Wrap(err, "rollback"))
		}
		s.tx = nil
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		keep(errors.Wrap(err, "close connection"))
	}
	if err := s.db.Close(); err != nil {
		keep(errors.Wrap(err, "close pool"))
	}
	return first
}

// IsClosed reports whether err is the "already closed / already finished"
// class that teardown paths swallow.
func IsClosed(err error) bool {
	return errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone)
}
