// Package pidfile writes the running process's PID to a file on start
// and removes it on clean shutdown, for operators who supervise the
// relay with a process manager that tracks it by PID file.
package pidfile

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Write records the current process's PID to path. An empty path is a
// no-op, so callers can unconditionally call Write/Remove regardless of
// whether --pid was set.
func Write(path string) error {
	if path == "" {
		return nil
	}
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pid), 0o644); err != nil {
		return errors.Wrapf(err, "write pid file %s", path)
	}
	return nil
}

// Remove deletes the PID file at path, ignoring a missing file. An empty
// path is a no-op.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove pid file %s", path)
	}
	return nil
}
