// Package config loads the voice handler's configuration. Settings come
// from an optional JSON file with sane defaults for everything; secrets
// (the OpenAI API key) come from the environment, optionally seeded by
// a .env file loaded in main.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// Personality modes for message composition.
const (
	PersonalityFriendly = "friendly_professional"
	PersonalityButler   = "butler"
	PersonalityCasual   = "casual"
)

// VoiceSettings controls how announcements sound.
type VoiceSettings struct {
	DefaultVoice string `json:"default_voice"`
	// SpeechRate is words per minute for OS-native speech; 0 means
	// the system default.
	SpeechRate   int    `json:"speech_rate"`
	UserNickname string `json:"user_nickname"`
	Personality  string `json:"personality"`
}

// Config is the full handler configuration. Interval fields are
// configuration-supplied defaults: the coordination semantics
// (anchoring, exemptions) hold regardless of the configured values.
type Config struct {
	Voice VoiceSettings `json:"voice_settings"`

	DedupWindowSec       float64 `json:"dedup_window_sec"`
	ToolIntervalSec      float64 `json:"tool_interval_sec"`
	MinSpeechDelaySec    float64 `json:"min_speech_delay_sec"`
	StateLockTimeoutSec  float64 `json:"state_lock_timeout_sec"`
	SpeechLockTimeoutSec float64 `json:"speech_lock_timeout_sec"`

	// Character budgets for transcript-derived announcements. The first
	// assistant response of a session gets the larger initial budget.
	InitialSummaryMax int `json:"initial_summary_max"`
	InitialSummaryMin int `json:"initial_summary_min"`
	MessageMax        int `json:"message_max"`
	MessageMin        int `json:"message_min"`

	SpeechLockPath string `json:"speech_lock_path"`
	LogFile        string `json:"log_file"`

	// SilentTools never trigger announcements.
	SilentTools []string `json:"silent_tools"`
	// ToolPhrases adds to or overrides the built-in action phrases.
	ToolPhrases map[string]string `json:"tool_phrases"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Voice: VoiceSettings{
			DefaultVoice: "nova",
			Personality:  PersonalityFriendly,
		},
		DedupWindowSec:       5,
		ToolIntervalSec:      3,
		MinSpeechDelaySec:    1,
		StateLockTimeoutSec:  2,
		SpeechLockTimeoutSec: 5,
		InitialSummaryMax:    400,
		InitialSummaryMin:    100,
		MessageMax:           200,
		MessageMin:           50,
		SpeechLockPath:       filepath.Join(os.TempDir(), "claude_voice_speech.lock"),
		LogFile:              filepath.Join(os.TempDir(), "claude_voice_debug.log"),
	}
}

// Load reads the config file at path and overlays it on the defaults.
// A missing or unreadable file is not an error: the handler must work
// out of the box with no configuration at all.
func Load(path string, log *logger.Logger) *Config {
	cfg := Default()
	if path == "" {
		return cfg
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("config: reading %s: %v (using defaults)", path, err)
		}
		return cfg
	}
	if err := json.Unmarshal(content, cfg); err != nil {
		log.Warn("config: parsing %s: %v (using defaults)", path, err)
		return Default()
	}
	cfg.normalize()
	return cfg
}

// normalize backfills zero values so a sparse config file keeps the
// defaults for everything it doesn't mention.
func (c *Config) normalize() {
	def := Default()
	if c.Voice.DefaultVoice == "" {
		c.Voice.DefaultVoice = def.Voice.DefaultVoice
	}
	if c.Voice.Personality == "" {
		c.Voice.Personality = def.Voice.Personality
	}
	if c.DedupWindowSec <= 0 {
		c.DedupWindowSec = def.DedupWindowSec
	}
	if c.ToolIntervalSec <= 0 {
		c.ToolIntervalSec = def.ToolIntervalSec
	}
	if c.MinSpeechDelaySec <= 0 {
		c.MinSpeechDelaySec = def.MinSpeechDelaySec
	}
	if c.StateLockTimeoutSec <= 0 {
		c.StateLockTimeoutSec = def.StateLockTimeoutSec
	}
	if c.SpeechLockTimeoutSec <= 0 {
		c.SpeechLockTimeoutSec = def.SpeechLockTimeoutSec
	}
	if c.InitialSummaryMax <= 0 {
		c.InitialSummaryMax = def.InitialSummaryMax
	}
	if c.InitialSummaryMin <= 0 {
		c.InitialSummaryMin = def.InitialSummaryMin
	}
	if c.MessageMax <= 0 {
		c.MessageMax = def.MessageMax
	}
	if c.MessageMin <= 0 {
		c.MessageMin = def.MessageMin
	}
	if c.SpeechLockPath == "" {
		c.SpeechLockPath = def.SpeechLockPath
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// DedupWindow returns the dedup window as a duration.
func (c *Config) DedupWindow() time.Duration { return seconds(c.DedupWindowSec) }

// ToolInterval returns the per-tool rate-limit interval.
func (c *Config) ToolInterval() time.Duration { return seconds(c.ToolIntervalSec) }

// MinSpeechDelay returns the minimum spacing between speech events.
func (c *Config) MinSpeechDelay() time.Duration { return seconds(c.MinSpeechDelaySec) }

// StateLockTimeout returns the state-store commit lock timeout.
func (c *Config) StateLockTimeout() time.Duration { return seconds(c.StateLockTimeoutSec) }

// SpeechLockTimeout returns the speech lock acquire timeout.
func (c *Config) SpeechLockTimeout() time.Duration { return seconds(c.SpeechLockTimeoutSec) }

// IsSilentTool reports whether announcements for tool are disabled.
func (c *Config) IsSilentTool(tool string) bool {
	for _, t := range c.SilentTools {
		if t == tool {
			return true
		}
	}
	return false
}
