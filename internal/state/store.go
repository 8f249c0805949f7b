// Package state persists the per-session coordination record.
//
// Hook invocations are independent processes, so the record lives in a
// JSON file under the OS temp directory. Reads are forgiving (anything
// unreadable yields a default record); writes go through an exclusive
// cross-process lock and an atomic temp-file rename, so a concurrent
// reader never observes a half-written record.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/flock"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// DefaultLockTimeout bounds how long a commit waits for the state lock.
// Two hook events for one tool call can land within milliseconds, so
// waiting briefly is normal; waiting longer means something is wedged
// and losing one commit beats stalling the host.
const DefaultLockTimeout = 2 * time.Second

// Compile-time interface check.
var _ domain.StateStore = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLockTimeout overrides the commit lock timeout.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.lockTimeout = d }
}

// Store is a file-backed session state store.
type Store struct {
	path        string
	sessionID   string
	lock        *flock.Lock
	lockTimeout time.Duration
	log         *logger.Logger
}

// New creates a store for the record at path, keyed to sessionID.
func New(path, sessionID string, log *logger.Logger, opts ...StoreOption) *Store {
	s := &Store{
		path:        path,
		sessionID:   sessionID,
		lock:        flock.New(path+".lock", log),
		lockTimeout: DefaultLockTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PathForSession returns the canonical state file path for a session.
func PathForSession(sessionID string) string {
	if sessionID == "" {
		sessionID = "default"
	}
	return filepath.Join(os.TempDir(), "claude_voice_state_"+sessionID+".json")
}

// Load returns the current on-disk state. It never fails: a missing,
// truncated, or corrupt record yields a fresh default state.
func (s *Store) Load() domain.SessionState {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Debug("state: read %s: %v (using defaults)", s.path, err)
		}
		return domain.DefaultSessionState(s.sessionID)
	}

	var st domain.SessionState
	if err := json.Unmarshal(content, &st); err != nil {
		s.log.Warn("state: corrupt record %s: %v (reinitializing)", s.path, err)
		return domain.DefaultSessionState(s.sessionID)
	}
	if st.ToolLastAnnouncedAt == nil {
		st.ToolLastAnnouncedAt = make(map[string]time.Time)
	}
	if st.SessionID == "" {
		st.SessionID = s.sessionID
	}
	return st
}

// Commit performs an atomic read-modify-write: take the state lock,
// re-load the latest committed record, apply mutate, and atomically
// replace the file. Failing to get the lock within the timeout is
// non-fatal: the mutation is applied to an in-memory copy, the write
// is skipped, and a warning is logged — a lost commit is preferable to
// blocking the host's hook runner.
func (s *Store) Commit(mutate func(*domain.SessionState)) (domain.SessionState, error) {
	if err := s.lock.Acquire(s.lockTimeout); err != nil {
		s.log.Warn("state: lock unavailable, skipping commit: %v", err)
		st := s.Load()
		mutate(&st)
		return st, nil
	}
	defer s.lock.Release()

	st := s.Load()
	mutate(&st)

	content, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return st, fmt.Errorf("marshal state: %w", err)
	}
	content = append(content, '\n')

	if err := writeFileAtomic(s.path, content, 0o600); err != nil {
		return st, fmt.Errorf("write state: %w", err)
	}
	return st, nil
}

// writeFileAtomic writes content to a temp file in the destination
// directory, fsyncs it, and renames it over path so concurrent readers
// only ever see a complete record.
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	parent := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(parent, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	cleanup = false
	return nil
}
