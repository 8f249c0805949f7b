// Package dedup decides whether a candidate announcement is a repeat
// of something spoken moments ago. Exact repeats and normalized
// near-repeats within the window are suppressed. The window anchors to
// when the last announcement was spoken, not to event arrival, so a
// burst of distinct events cannot keep extending each other's window.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
)

// DefaultWindow is the span after a spoken announcement during which an
// equal or near-equal announcement is suppressed.
const DefaultWindow = 5 * time.Second

// Normalize case-folds and collapses all whitespace runs to single
// spaces. The rules are fixed; test vectors depend on them.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Digest returns the hex SHA-256 of the normalized text.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// IsDuplicate reports whether candidate repeats the last spoken
// announcement within the window. Empty candidates are never
// duplicates (they are suppressed for being empty, not for repeating).
func IsDuplicate(candidate string, st domain.SessionState, now time.Time, window time.Duration) bool {
	if candidate == "" || st.LastSpokenAt.IsZero() {
		return false
	}
	if now.Sub(st.LastSpokenAt) >= window {
		return false
	}
	if candidate == st.LastSpokenText {
		return true
	}
	return st.LastSpokenHash != "" && Digest(candidate) == st.LastSpokenHash
}
