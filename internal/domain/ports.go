package domain

import (
	"context"
	"time"
)

// StateStore persists the per-session coordination record. Load never
// fails: a missing or unreadable record yields a default state. Commit
// performs a locked read-modify-write so concurrent invocations are
// linearized; a lock timeout degrades to best effort without error.
type StateStore interface {
	Load() SessionState
	Commit(mutate func(*SessionState)) (SessionState, error)
}

// Speaker delivers one announcement. voice may be empty for the
// implementation's default. Implementations can call a network TTS
// service, shell out to OS speech, or do nothing.
type Speaker interface {
	Speak(ctx context.Context, text, voice string) error
}

// Locker is a cross-process mutual exclusion primitive. Acquire blocks
// up to timeout and returns ErrLockTimeout when the lock stays held.
type Locker interface {
	Acquire(timeout time.Duration) error
	Release()
}
