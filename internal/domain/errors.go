package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrLockTimeout        = errors.New("lock acquisition timed out")
	ErrNoAudioDevice      = errors.New("audio device unavailable")
	ErrBackendUnavailable = errors.New("speech backend unavailable")
)
