package speech

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

func lockLogger() *logger.Logger {
	return logger.New(logger.LevelOff, io.Discard)
}

func TestLockSingleHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.lock")
	a := NewLock(path, 0, lockLogger())
	b := NewLock(path, 0, lockLogger())

	if err := a.Acquire(time.Second); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if err := b.Acquire(100 * time.Millisecond); !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("second holder got in: %v", err)
	}

	a.Release()
	if err := b.Acquire(time.Second); err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	b.Release()
}

func TestLockEnforcesSpacing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.lock")
	spacing := 80 * time.Millisecond

	first := NewLock(path, spacing, lockLogger())
	if err := first.Acquire(time.Second); err != nil {
		t.Fatal(err)
	}
	first.Release() // stamps the finish time

	second := NewLock(path, spacing, lockLogger())
	start := time.Now()
	if err := second.Acquire(time.Second); err != nil {
		t.Fatal(err)
	}
	second.Release()

	if elapsed := time.Since(start); elapsed < spacing/2 {
		t.Fatalf("second acquire returned after %v, spacing not enforced", elapsed)
	}
}

func TestLockSpacingSkippedWhenStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.lock")

	first := NewLock(path, time.Hour, lockLogger())
	if err := first.Acquire(time.Second); err != nil {
		t.Fatal(err)
	}
	first.Release()

	// A fresh lock with tiny spacing must not inherit an hour-long wait.
	second := NewLock(path, 10*time.Millisecond, lockLogger())
	start := time.Now()
	if err := second.Acquire(time.Second); err != nil {
		t.Fatal(err)
	}
	second.Release()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("spacing wait ran away: %v", elapsed)
	}
}
