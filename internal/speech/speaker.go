package speech

import (
	"context"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*FallbackSpeaker)(nil)

// FallbackSpeaker tries a primary speaker and falls back to a second
// one when the primary fails. A failed announcement is never an error
// for the caller's control flow: the handler logs it and moves on.
type FallbackSpeaker struct {
	primary  domain.Speaker
	fallback domain.Speaker
	log      *logger.Logger
}

// NewFallbackSpeaker chains primary and fallback. fallback may be nil,
// in which case primary errors propagate.
func NewFallbackSpeaker(primary, fallback domain.Speaker, log *logger.Logger) *FallbackSpeaker {
	return &FallbackSpeaker{primary: primary, fallback: fallback, log: log}
}

// Speak tries the primary speaker, then the fallback.
func (f *FallbackSpeaker) Speak(ctx context.Context, text, voice string) error {
	err := f.primary.Speak(ctx, text, voice)
	if err == nil {
		return nil
	}
	if f.fallback == nil {
		return err
	}
	f.log.Warn("speech: primary backend failed (%v), using fallback", err)
	return f.fallback.Speak(ctx, text, voice)
}
