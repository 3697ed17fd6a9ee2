// Package runctx holds the per-run state shared between the batch driver,
// the loader and the schema reconciler: the operator's abort flag and the set
// of tables created during the run.
//
// A RunContext is owned by one run. The abort flag may be set from any
// goroutine (a signal handler, a UI thread); everything else is only touched
// by the run goroutine but is guarded anyway so Created can be read for
// reporting while a run is in flight.
package runctx

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrAborted is returned by work that stopped because the operator requested
// an abort.
var ErrAborted = errors.New("abort requested")

// RunContext is the cooperative cancellation state for one run.
type RunContext struct {
	aborted atomic.Bool

	mu      sync.Mutex
	id      string
	created []string
	seen    map[string]struct{}
	cleaned bool
}

// New returns a fresh RunContext with a new run ID.
func New() *RunContext {
	rc := &RunContext{}
	rc.Reset()
	return rc
}

// Reset starts a new run: new ID, abort cleared, created set emptied.
// The driver calls it at the start of a run, never at the end, so the state
// of an aborted run stays inspectable until the next one begins.
func (rc *RunContext) Reset() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.id = uuid.NewString()
	rc.created = nil
	rc.seen = make(map[string]struct{})
	rc.cleaned = false
	rc.aborted.Store(false)
}

// ID identifies the current run in logs and summaries.
func (rc *RunContext) ID() string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.id
}

// Abort requests cancellation. Safe to call from any goroutine, any number
// of times.
func (rc *RunContext) Abort() { rc.aborted.Store(true) }

// Aborted reports whether an abort has been requested.
func (rc *RunContext) Aborted() bool { return rc.aborted.Load() }

// Err returns ErrAborted once Abort has been called, nil otherwise.
func (rc *RunContext) Err() error {
	if rc.Aborted() {
		return ErrAborted
	}
	return nil
}

// AddCreated records a table created by this run. Names are kept in creation
// order and deduplicated.
func (rc *RunContext) AddCreated(table string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, ok := rc.seen[table]; ok {
		return
	}
	rc.seen[table] = struct{}{}
	rc.created = append(rc.created, table)
}

// Created returns a copy of the tables created by this run, in creation
// order.
func (rc *RunContext) Created() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]string, len(rc.created))
	copy(out, rc.created)
	return out
}

// WasCreated reports whether table was created by this run.
func (rc *RunContext) WasCreated(table string) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	_, ok := rc.seen[table]
	return ok
}

// BeginCleanup returns true exactly once per run; later callers must not
// repeat the abort cleanup.
func (rc *RunContext) BeginCleanup() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.cleaned {
		return false
	}
	rc.cleaned = true
	return true
}

// AbortOnDone sets the abort flag when ctx is done. The returned stop
// function detaches the watcher.
func (rc *RunContext) AbortOnDone(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, rc.Abort)
}
