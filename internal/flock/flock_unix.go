//go:build unix

package flock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// errContended signals the lock is held by someone else; retry.
var errContended = errors.New("lock contended")

// lockHandle holds the open, flocked file while the lock is held.
type lockHandle struct {
	file *os.File
}

// tryAcquire opens the lock file and attempts a non-blocking exclusive
// flock. The kernel drops the lock automatically if the process dies.
func tryAcquire(l *Lock) (lockHandle, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return lockHandle{}, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return lockHandle{}, errContended
		}
		return lockHandle{}, fmt.Errorf("flock: %w", err)
	}
	return lockHandle{file: f}, nil
}

// release unlocks and closes the lock file. Called with l.mu held.
func release(l *Lock) {
	if l.h.file == nil {
		return
	}
	_ = unix.Flock(int(l.h.file.Fd()), unix.LOCK_UN)
	_ = l.h.file.Close()
	l.h = lockHandle{}
}
