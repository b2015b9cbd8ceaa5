// FILE: cmd/chess-server/pid.go
package main

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// managePIDFile writes the process ID to path, optionally holding an
// exclusive lock so a second server on the same file refuses to start.
// The returned cleanup releases the lock and removes the file.
func managePIDFile(path string, lock bool) (func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("cannot create PID file: %w", err)
		}

		// Existing file: flock decides whether its owner is still alive
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("cannot open PID file: %w", err)
		}
	}

	if lock {
		if err = syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			file.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				return nil, fmt.Errorf("cannot acquire lock: another server is running")
			}
			return nil, fmt.Errorf("lock failed: %w", err)
		}
	}

	fail := func(what string, err error) (func(), error) {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	if err = file.Truncate(0); err != nil {
		return fail("cannot truncate PID file", err)
	}
	if _, err = fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		return fail("cannot write PID", err)
	}
	if err = file.Sync(); err != nil {
		return fail("cannot sync PID file", err)
	}

	return func() {
		if lock {
			syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		}
		file.Close()
		os.Remove(path)
	}, nil
}
