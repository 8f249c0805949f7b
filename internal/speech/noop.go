package speech

import (
	"context"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*NoOp)(nil)

// NoOp is a speaker that does nothing. Used when speech is disabled;
// the rest of the pipeline (state, dedup, offsets) still runs so the
// session record stays accurate.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op speaker.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Speak logs what would have been said and returns nil.
func (n *NoOp) Speak(ctx context.Context, text, voice string) error {
	n.log.Debug("speech no-op: would say %q", text)
	return nil
}
