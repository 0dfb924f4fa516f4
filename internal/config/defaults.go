package config

import "time"

// Default configuration constants
const (
	DefaultHost        = "0.0.0.0"
	DefaultHTTPPort    = "8080"
	DefaultEnvironment = "development"

	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 6 * time.Minute // video polling alone can take 5 minutes
	DefaultIdleTimeout  = 60 * time.Second

	DefaultPersonaName     = "Abraham Lincoln"
	DefaultPersonaProvider = PersonaProviderOpenAI
	DefaultMaxWords        = 45
	DefaultMaxTokens       = 150
	DefaultChatModel       = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultAudioFormat     = "webm"

	DefaultVideoMode     = VideoModeText
	DefaultVoiceProvider = "microsoft"
	DefaultVoiceID       = "en-US-GuyNeural"
	DefaultPortraitURL   = "https://upload.wikimedia.org/wikipedia/commons/a/ab/Abraham_Lincoln_O-77_matte_collodion_print.jpg"

	DefaultElevenLabsModel  = "eleven_multilingual_v2"
	DefaultStability        = 0.5
	DefaultSimilarityBoost  = 0.75
	DefaultStyle            = 0.0
	DefaultPollInterval     = 5 * time.Second
	DefaultMaxPolls         = 60
	DefaultPresignTTL       = 15 * time.Minute
	DefaultAudioStoreBucket = "persona-audio"
)

// Persona backends
const (
	PersonaProviderOpenAI = "openai"
	PersonaProviderGemini = "gemini"
)

// Video submission modes
const (
	// VideoModeText lets the video service voice the reply itself
	VideoModeText = "text"
	// VideoModeAudio synthesizes speech first and submits the audio
	VideoModeAudio = "audio"
)
