// Package flock provides a cross-process advisory file lock.
//
// On unix the lock is a flock(2) on a well-known file, so ownership is
// released by the kernel when the holding process dies — a crashed
// invocation can never deadlock its successors. On other platforms an
// O_EXCL lock file with an age-based force-break is used instead.
package flock

import (
	"sync"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

const (
	defaultRetry      = 10 * time.Millisecond
	defaultStaleAfter = 30 * time.Second
)

// Option configures a Lock.
type Option func(*Lock)

// WithRetryInterval sets how long to sleep between acquisition attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(l *Lock) { l.retry = d }
}

// WithStaleAfter sets the age ceiling past which an abandoned lock file
// is force-broken. Only meaningful on platforms without flock(2).
func WithStaleAfter(d time.Duration) Option {
	return func(l *Lock) { l.staleAfter = d }
}

// Lock is a named cross-process lock. The zero value is not usable;
// construct with New. A Lock is safe for concurrent use, but it is a
// single-holder handle: Acquire while held by the same Lock blocks
// until Release.
type Lock struct {
	path       string
	retry      time.Duration
	staleAfter time.Duration
	log        *logger.Logger

	mu   sync.Mutex
	held bool
	h    lockHandle // platform-specific state, valid while held
}

// New creates a lock on the given path.
func New(path string, log *logger.Logger, opts ...Option) *Lock {
	l := &Lock{
		path:       path,
		retry:      defaultRetry,
		staleAfter: defaultStaleAfter,
		log:        log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Acquire takes the lock, waiting up to timeout. It returns
// domain.ErrLockTimeout if the lock stays held by another process.
func (l *Lock) Acquire(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		h, err := tryAcquire(l)
		if err == nil {
			l.mu.Lock()
			l.held = true
			l.h = h
			l.mu.Unlock()
			return nil
		}
		if err != errContended {
			return err
		}
		if time.Now().After(deadline) {
			l.log.Debug("flock: timed out waiting for %s", l.path)
			return domain.ErrLockTimeout
		}
		time.Sleep(l.retry)
	}
}

// Release drops the lock. Safe to call when not held.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return
	}
	release(l)
	l.held = false
}

// WithLock runs fn while holding the lock.
func (l *Lock) WithLock(timeout time.Duration, fn func() error) error {
	if err := l.Acquire(timeout); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
