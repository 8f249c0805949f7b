// voicehook — voice announcements for Claude Code hook events.
//
// Wire it into the host's hook configuration for each event you want
// spoken; the event payload arrives on stdin. The process always exits
// 0: a broken announcement must never fail the host's tool call.
//
// Usage:
//
//	voicehook [--hook NAME] [--tool NAME] [--message TEXT] [flags]
package main

import (
	"context"
	"flag"
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/markhilton/claude-code-voice-handler/internal/config"
	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/hook"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
	"github.com/markhilton/claude-code-voice-handler/internal/message"
	"github.com/markhilton/claude-code-voice-handler/internal/speech"
	"github.com/markhilton/claude-code-voice-handler/internal/state"
	"github.com/markhilton/claude-code-voice-handler/internal/transcript"
)

// handleTimeout bounds one whole invocation. TTS synthesis plus
// playback of a long announcement fits comfortably; anything slower is
// wedged and the host should not wait on it.
const handleTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	hookName := flag.String("hook", "", "hook event name (fallback when stdin has none)")
	toolName := flag.String("tool", "", "tool name (fallback when stdin has none)")
	messageText := flag.String("message", "", "speak this exact text instead of the composed announcement")
	voiceName := flag.String("voice", "", "TTS voice override")
	filePath := flag.String("file", "", "file path the tool operates on (fallback)")
	command := flag.String("command", "", "command the tool runs (fallback)")
	query := flag.String("query", "", "search query (fallback)")
	configPath := flag.String("config", "", "path to the JSON config file")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "debug log path (overrides config)")
	noSpeech := flag.Bool("no-speech", false, "run the pipeline without producing audio")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Bootstrap logger so config loading has somewhere to complain.
	// Replaced below once the real log file path is known.
	log := logger.New(logger.LevelOff, io.Discard)
	cfg := config.Load(*configPath, log)
	if *voiceName != "" {
		cfg.Voice.DefaultVoice = *voiceName
	}

	logPath := cfg.LogFile
	if *logFile != "" {
		logPath = *logFile
	}
	var logOut io.Writer = io.Discard
	if logLevel != logger.LevelOff {
		if f, err := logger.OpenFile(logPath); err == nil {
			logOut = f
			defer f.Close()
		}
	}
	tag := uuid.NewString()[:8]
	log = logger.New(logLevel, logOut, logger.WithTag(tag))

	// Third-party libraries write through the default log package;
	// keep that off the host's streams too.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	fallback := domain.Event{
		Kind:     domain.HookKindFromString(*hookName),
		Tool:     *toolName,
		FilePath: *filePath,
		Command:  *command,
		Query:    *query,
		Override: *messageText,
	}

	ev := fallback
	if stdinHasData() {
		ev = hook.Merge(hook.ParseEvent(os.Stdin, log), fallback)
	}
	if ev.Kind == domain.HookUnknown && ev.Override == "" {
		log.Debug("no hook event and no message, nothing to do")
		return
	}
	if ev.Kind == domain.HookUnknown && ev.Override != "" {
		// A bare --message invocation speaks as a notification.
		ev.Kind = domain.HookNotification
		ev.Message = ev.Override
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	store := state.New(state.PathForSession(ev.SessionID), ev.SessionID, log,
		state.WithLockTimeout(cfg.StateLockTimeout()),
	)
	reader := transcript.NewReader(log)
	composer := message.NewComposer(cfg)
	lock := speech.NewLock(cfg.SpeechLockPath, cfg.MinSpeechDelay(), log)

	h := hook.New(cfg, log, store, reader, composer, buildSpeaker(cfg, *noSpeech, log), lock)
	h.Handle(ctx, ev)

	// Exit 0 unconditionally: reaching here means every failure mode
	// already degraded to a logged, skipped announcement.
}

// buildSpeaker picks the best available speech backend: OpenAI TTS with
// the OS voice as fallback, the OS voice alone, or nothing.
func buildSpeaker(cfg *config.Config, noSpeech bool, log *logger.Logger) domain.Speaker {
	if noSpeech {
		return speech.NewNoOp(log)
	}

	system := speech.NewSystemSpeaker(log)
	system.Rate = cfg.Voice.SpeechRate

	player, err := speech.NewPlayer(log)
	if err != nil {
		log.Warn("audio device unavailable, using OS speech: %v", err)
		return system
	}

	primary, err := speech.NewOpenAISpeaker(player, log)
	if err != nil {
		log.Info("OpenAI TTS disabled (%v), using OS speech", err)
		return system
	}
	return speech.NewFallbackSpeaker(primary, system, log)
}

// stdinHasData reports whether stdin is a pipe or file rather than an
// interactive terminal.
func stdinHasData() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
