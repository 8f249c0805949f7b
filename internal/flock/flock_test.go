package flock

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.LevelOff, io.Discard)
}

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")
	l := New(path, testLogger())

	if err := l.Acquire(time.Second); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	l.Release()

	// Reacquire after release must succeed.
	if err := l.Acquire(time.Second); err != nil {
		t.Fatalf("reacquire failed: %v", err)
	}
	l.Release()
}

func TestContentionTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")
	holder := New(path, testLogger())
	waiter := New(path, testLogger())

	if err := holder.Acquire(time.Second); err != nil {
		t.Fatalf("holder acquire failed: %v", err)
	}
	defer holder.Release()

	start := time.Now()
	err := waiter.Acquire(100 * time.Millisecond)
	if !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("gave up after %v, before the timeout", elapsed)
	}
}

func TestContenderGetsLockAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")
	holder := New(path, testLogger())
	waiter := New(path, testLogger())

	if err := holder.Acquire(time.Second); err != nil {
		t.Fatalf("holder acquire failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- waiter.Acquire(2 * time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	holder.Release()

	if err := <-done; err != nil {
		t.Fatalf("waiter never got the lock: %v", err)
	}
	waiter.Release()
}

func TestWithLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")
	l := New(path, testLogger())

	ran := false
	err := l.WithLock(time.Second, func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock failed: %v", err)
	}
	if !ran {
		t.Fatal("critical section did not run")
	}

	// The lock must be free again afterwards.
	if err := l.Acquire(100 * time.Millisecond); err != nil {
		t.Fatalf("lock still held after WithLock: %v", err)
	}
	l.Release()
}

func TestReleaseWithoutAcquireIsSafe(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "test.lock"), testLogger())
	l.Release() // must not panic
}
