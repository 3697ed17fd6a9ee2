// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from load runs.
//
// The package exposes a narrow interface (Backend) for counters and timing
// data and a global, pluggable backend that defaults to a no-op, so metrics
// are always safe to call even when no real backend is configured. Concrete
// systems live in subpackages (prompush, datadog).
//
// Steps are the phases of a run: "decode" and "load" per file, "run" for the
// whole batch. Record kinds mirror the run summary: "decoded", "bad_lines",
// "deleted", "inserted", "dropped", "failed".
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by every backend.
const (
	StepTotal           = "flatload_step_total"
	StepDurationSeconds = "flatload_step_duration_seconds"
	RecordsTotal        = "flatload_records_total"
	FilesTotal          = "flatload_files_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep measures latency and success/failure of one step.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow increments a record-level counter for the given job and kind.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordFile counts one processed file by outcome ("succeeded", "errored",
// "skipped").
func RecordFile(job, outcome string) {
	current().IncCounter(FilesTotal, 1, Labels{
		"job":     job,
		"outcome": outcome,
	})
}
