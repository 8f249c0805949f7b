package speech

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/flock"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// Lock serializes audio output across concurrently running handler
// processes. Exactly one process speaks at a time; the others wait up
// to their acquire timeout and give up silently. A small timestamp
// file next to the lock enforces minimum spacing between consecutive
// utterances so back-to-back announcements don't blur together.
type Lock struct {
	inner      *flock.Lock
	lastPath   string
	minSpacing time.Duration
	log        *logger.Logger
}

// NewLock creates a speech lock at path. minSpacing of 0 disables the
// spacing delay.
func NewLock(path string, minSpacing time.Duration, log *logger.Logger) *Lock {
	return &Lock{
		inner:      flock.New(path, log),
		lastPath:   path + ".last",
		minSpacing: minSpacing,
		log:        log,
	}
}

// Acquire takes the lock, then sleeps off any remaining spacing since
// the previous holder finished speaking. Returns domain.ErrLockTimeout
// when another process holds the lock past the timeout.
func (l *Lock) Acquire(timeout time.Duration) error {
	if err := l.inner.Acquire(timeout); err != nil {
		return err
	}

	if l.minSpacing > 0 {
		if since, ok := l.sinceLastSpoken(); ok && since < l.minSpacing {
			wait := l.minSpacing - since
			l.log.Debug("speech lock: spacing delay %s", wait.Round(time.Millisecond))
			time.Sleep(wait)
		}
	}
	return nil
}

// Release stamps the finish time and drops the lock.
func (l *Lock) Release() {
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := os.WriteFile(l.lastPath, []byte(stamp+"\n"), 0o600); err != nil {
		l.log.Debug("speech lock: writing timestamp: %v", err)
	}
	l.inner.Release()
}

// sinceLastSpoken reads the timestamp file left by the previous holder.
func (l *Lock) sinceLastSpoken() (time.Duration, bool) {
	content, err := os.ReadFile(l.lastPath)
	if err != nil {
		return 0, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(content)), 10, 64)
	if err != nil {
		return 0, false
	}
	since := time.Since(time.UnixMilli(ms))
	if since < 0 {
		return 0, false
	}
	return since, true
}
