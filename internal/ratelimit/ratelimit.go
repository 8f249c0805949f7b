// Package ratelimit spaces out announcements for the same tool. Tools
// are independent: a burst of Edit announcements never delays a Bash
// one. Task completions are exempt — a finished task is always worth
// hearing, even seconds after the previous one.
package ratelimit

import (
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
)

// DefaultInterval is the minimum spacing between two announcements for
// the same tool.
const DefaultInterval = 3 * time.Second

// Category classifies a candidate announcement for rate limiting.
type Category int

const (
	// CategoryActivity covers ordinary tool-progress announcements.
	CategoryActivity Category = iota
	// CategoryCompletion covers task-completion announcements, which
	// are never rate limited.
	CategoryCompletion
	// CategoryApproval covers approval/permission requests, which
	// bypass the limiter (and the deduplicator) entirely upstream.
	CategoryApproval
)

// Allow reports whether an announcement for tool may fire at now.
// It is pure: the caller stamps ToolLastAnnouncedAt only if the overall
// decision is to speak.
func Allow(tool string, cat Category, st domain.SessionState, now time.Time, interval time.Duration) bool {
	if cat == CategoryCompletion || cat == CategoryApproval {
		return true
	}
	last, ok := st.ToolLastAnnouncedAt[tool]
	if !ok || last.IsZero() {
		return true
	}
	return now.Sub(last) >= interval
}
