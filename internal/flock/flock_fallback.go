//go:build !unix

package flock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// errContended signals the lock is held by someone else; retry.
var errContended = errors.New("lock contended")

type lockHandle struct{}

type lockMetadata struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
}

// tryAcquire creates the lock file with O_EXCL. Without flock(2) there
// is no kernel-released ownership, so a lock file older than the stale
// ceiling is treated as abandoned and force-broken.
func tryAcquire(l *Lock) (lockHandle, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err == nil {
		meta, _ := json.Marshal(lockMetadata{PID: os.Getpid(), CreatedAt: time.Now().UTC()})
		_, _ = f.Write(append(meta, '\n'))
		_ = f.Close()
		return lockHandle{}, nil
	}
	if !os.IsExist(err) {
		return lockHandle{}, fmt.Errorf("create lock file: %w", err)
	}
	if isStale(l.path, l.staleAfter) {
		l.log.Warn("flock: breaking stale lock %s", l.path)
		_ = os.Remove(l.path)
	}
	return lockHandle{}, errContended
}

// release removes the lock file. Called with l.mu held.
func release(l *Lock) {
	_ = os.Remove(l.path)
}

func isStale(path string, staleAfter time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) <= staleAfter {
		return false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	var meta lockMetadata
	if err := json.Unmarshal(content, &meta); err != nil || meta.CreatedAt.IsZero() {
		return true
	}
	return time.Since(meta.CreatedAt) > staleAfter
}
