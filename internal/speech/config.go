// Package speech turns announcement text into audio. The primary path
// is OpenAI TTS played through the system audio device; when no API key
// is present or synthesis fails, the OS-native speech command takes
// over. Either way the caller sees one Speaker.
package speech

// DefaultVoice for OpenAI TTS.
// Full list: https://platform.openai.com/docs/guides/text-to-speech
const DefaultVoice = "nova"

// Audio parameters of the PCM stream requested from the TTS API and
// expected by the player. They must match or playback pitch-shifts.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// EnvOpenAIKey is the environment variable holding the API key.
const EnvOpenAIKey = "OPENAI_API_KEY"

// CompressThreshold is the text length above which announcements are
// compressed by a small chat model before synthesis. Short phrases go
// straight to TTS.
const CompressThreshold = 50
