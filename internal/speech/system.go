package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*SystemSpeaker)(nil)

// SystemSpeaker uses the operating system's built-in speech command:
// say on macOS, espeak on Linux, the SAPI voice via PowerShell on
// Windows. It needs no API key and no audio library, which makes it
// the fallback of last resort.
type SystemSpeaker struct {
	log *logger.Logger
	// Rate is words per minute; 0 uses the platform default. Only
	// macOS and Linux honor it.
	Rate int
}

// NewSystemSpeaker creates an OS-native speaker.
func NewSystemSpeaker(log *logger.Logger) *SystemSpeaker {
	return &SystemSpeaker{log: log}
}

// Speak runs the platform speech command and blocks until it exits.
// The voice argument is honored on macOS, ignored elsewhere.
func (s *SystemSpeaker) Speak(ctx context.Context, text, voice string) error {
	if text == "" {
		return nil
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		args := []string{}
		if voice != "" && !isAPIVoice(voice) {
			args = append(args, "-v", voice)
		}
		if s.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(s.Rate))
		}
		args = append(args, text)
		cmd = exec.CommandContext(ctx, "say", args...)
	case "linux":
		args := []string{}
		if s.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(s.Rate))
		}
		args = append(args, text)
		cmd = exec.CommandContext(ctx, "espeak", args...)
	case "windows":
		script := "Add-Type -AssemblyName System.Speech; " +
			"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak(" + psQuote(text) + ")"
		cmd = exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script)
	default:
		return fmt.Errorf("%w: no speech command for %s", domain.ErrBackendUnavailable, runtime.GOOS)
	}

	s.log.Debug("system speech: %s %q", cmd.Path, text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("system speech: %w", err)
	}
	return nil
}

// isAPIVoice filters out OpenAI voice names that the macOS say command
// would reject.
func isAPIVoice(voice string) bool {
	switch voice {
	case "alloy", "echo", "fable", "onyx", "nova", "shimmer":
		return true
	}
	return false
}

// psQuote single-quotes a string for PowerShell, doubling embedded
// quotes.
func psQuote(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '\'')
	for _, r := range s {
		if r == '\'' {
			out = append(out, '\'', '\'')
			continue
		}
		out = append(out, r)
	}
	return string(append(out, '\''))
}
