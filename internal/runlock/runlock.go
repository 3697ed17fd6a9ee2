// Package runlock holds an exclusive lock file for the duration of a run so
// two loads never hold the warehouse connection at the same time.
package runlock

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// ErrLocked is returned by Acquire when another process holds the lock.
var ErrLocked = errors.New("runlock: another run holds the lock")

// Lock is a held lock file. Release it when the run ends.
type Lock struct {
	path string
	f    *os.File
}

// Acquire opens (creating if needed) the file at path and takes an
// exclusive, non-blocking lock on it. The holder's pid is written into the
// file for operators.
func Acquire(path string) (*Lock, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("runlock: empty path")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "runlock: open")
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		if errors.Is(err, ErrLocked) {
			return nil, errors.Wrapf(ErrLocked, "%s (pid %s)", path, holder(path))
		}
		return nil, errors.Wrap(err, "runlock: lock")
	}
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &Lock{path: path, f: f}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock and closes the file. The file itself is left in
// place; removing it would race with a waiting process.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	err := unlockFile(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "runlock: release")
	}
	return nil
}

func holder(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	pid := strings.TrimSpace(string(b))
	if pid == "" {
		return "unknown"
	}
	return pid
}
