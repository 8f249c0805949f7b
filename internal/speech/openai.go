package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// compressPrompt asks the chat model to shrink an announcement without
// losing its meaning. The output goes straight to TTS.
const compressPrompt = "Compress this status update into one short spoken sentence. " +
	"Keep the key facts, drop file paths and code. Reply with the sentence only."

// compressModel is the small, cheap model used for announcement
// compression.
const compressModel = "gpt-4o-mini"

// Compile-time interface check.
var _ domain.Speaker = (*OpenAISpeaker)(nil)

// OpenAISpeaker synthesizes announcements with the OpenAI TTS API and
// plays them through the local audio device. Longer texts are first
// compressed by a chat model so the spoken version stays brief.
type OpenAISpeaker struct {
	client   *openai.Client
	player   *Player
	log      *logger.Logger
	compress bool
}

// OpenAIOption configures the speaker.
type OpenAIOption func(*OpenAISpeaker)

// WithCompression toggles chat-model compression of long announcements.
func WithCompression(enabled bool) OpenAIOption {
	return func(s *OpenAISpeaker) { s.compress = enabled }
}

// NewOpenAISpeaker creates a speaker backed by the OpenAI API. Returns
// domain.ErrBackendUnavailable when no API key is configured.
func NewOpenAISpeaker(player *Player, log *logger.Logger, opts ...OpenAIOption) (*OpenAISpeaker, error) {
	key := os.Getenv(EnvOpenAIKey)
	if key == "" {
		return nil, domain.ErrBackendUnavailable
	}

	cfg := openai.DefaultConfig(key)
	s := &OpenAISpeaker{
		client:   openai.NewClientWithConfig(cfg),
		player:   player,
		log:      log,
		compress: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Speak synthesizes text with the given voice and plays it. Blocks
// until playback completes.
func (s *OpenAISpeaker) Speak(ctx context.Context, text, voice string) error {
	if text == "" {
		return nil
	}
	if voice == "" {
		voice = DefaultVoice
	}

	if s.compress && len(text) > CompressThreshold {
		if short, err := s.compressText(ctx, text); err != nil {
			s.log.Warn("tts: compression failed, speaking full text: %v", err)
		} else if short != "" {
			s.log.Debug("tts: compressed %d -> %d chars", len(text), len(short))
			text = short
		}
	}

	audio, err := s.synthesize(ctx, text, voice)
	if err != nil {
		return err
	}
	return s.player.Play(audio)
}

// synthesize requests raw PCM matching the player's format.
func (s *OpenAISpeaker) synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	s.log.Debug("tts: synthesized %d bytes for %d chars", len(audio), len(text))
	return audio, nil
}

// compressText asks the chat model for a one-sentence version of text.
func (s *OpenAISpeaker) compressText(ctx context.Context, text string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     compressModel,
		MaxTokens: 80,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: compressPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
