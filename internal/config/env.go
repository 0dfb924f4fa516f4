package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the complete service configuration, built once at startup and
// injected into the server and the pipeline.
type Config struct {
	Server         ServerConfig
	AccessPassword string
	LogLevel       string

	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	ElevenLabs ElevenLabsConfig
	DID        DIDConfig
	AudioStore AudioStoreConfig

	Profile Profile
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	StaticDir    string
}

// OpenAIConfig holds transcription and chat settings
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	ChatModel string
}

// GeminiConfig holds the alternate persona backend settings
type GeminiConfig struct {
	APIKey string
	Model  string
}

// ElevenLabsConfig holds speech synthesis settings
type ElevenLabsConfig struct {
	APIKey          string
	BaseURL         string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	Style           float64
}

// DIDConfig holds video service settings. PollInterval and MaxPolls may only
// tighten the 5s x 60 polling ceiling.
type DIDConfig struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	MaxPolls     int
}

// AudioStoreConfig holds the optional object store used for audio-mode uploads.
// An empty Endpoint disables it.
type AudioStoreConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignTTL time.Duration
}

// Enabled reports whether an object store is configured
func (c AudioStoreConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Environment variables may be set system-wide, so a missing file is not an error
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// Load reads the configuration from the process environment. It does not
// validate; call Validate before wiring anything that makes network calls.
func Load() (*Config, error) {
	var parseErrs []string
	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			parseErrs = append(parseErrs, err.Error())
		}
		return v
	}
	floatVar := func(key string, def float64) float64 {
		v, err := getEnvFloat(key, def)
		if err != nil {
			parseErrs = append(parseErrs, err.Error())
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			parseErrs = append(parseErrs, err.Error())
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnvOrDefault("HOST", DefaultHost),
			Port:         getEnvOrDefault("PORT", DefaultHTTPPort),
			Environment:  getEnvOrDefault("APP_ENV", DefaultEnvironment),
			ReadTimeout:  durationVar("SERVER_READ_TIMEOUT", DefaultReadTimeout),
			WriteTimeout: durationVar("SERVER_WRITE_TIMEOUT", DefaultWriteTimeout),
			IdleTimeout:  durationVar("SERVER_IDLE_TIMEOUT", DefaultIdleTimeout),
			StaticDir:    getEnvOrDefault("STATIC_DIR", "web/static"),
		},
		AccessPassword: getEnv("ACCESS_PASSWORD"),
		LogLevel:       getEnv("LOG_LEVEL"),
		OpenAI: OpenAIConfig{
			APIKey:    getEnv("OPENAI_API_KEY"),
			BaseURL:   getEnv("OPENAI_BASE_URL"),
			ChatModel: getEnvOrDefault("OPENAI_CHAT_MODEL", DefaultChatModel),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", DefaultGeminiModel),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:          getEnv("ELEVENLABS_API_KEY"),
			BaseURL:         getEnv("ELEVENLABS_BASE_URL"),
			VoiceID:         getEnv("ELEVENLABS_VOICE_ID"),
			ModelID:         getEnvOrDefault("ELEVENLABS_MODEL_ID", DefaultElevenLabsModel),
			Stability:       floatVar("ELEVENLABS_STABILITY", DefaultStability),
			SimilarityBoost: floatVar("ELEVENLABS_SIMILARITY_BOOST", DefaultSimilarityBoost),
			Style:           floatVar("ELEVENLABS_STYLE", DefaultStyle),
		},
		DID: DIDConfig{
			APIKey:       getEnv("DID_API_KEY"),
			BaseURL:      getEnv("DID_BASE_URL"),
			PollInterval: durationVar("DID_POLL_INTERVAL", DefaultPollInterval),
			MaxPolls:     intVar("DID_MAX_POLLS", DefaultMaxPolls),
		},
		AudioStore: AudioStoreConfig{
			Endpoint:   getEnv("AUDIO_STORE_ENDPOINT"),
			AccessKey:  getEnv("AUDIO_STORE_ACCESS_KEY"),
			SecretKey:  getEnv("AUDIO_STORE_SECRET_KEY"),
			Bucket:     getEnvOrDefault("AUDIO_STORE_BUCKET", DefaultAudioStoreBucket),
			UseSSL:     getEnv("AUDIO_STORE_USE_SSL") == "true",
			PresignTTL: durationVar("AUDIO_STORE_PRESIGN_TTL", DefaultPresignTTL),
		},
		Profile: Profile{
			Name:            "env",
			PersonaName:     getEnvOrDefault("PERSONA_NAME", DefaultPersonaName),
			PersonaProvider: strings.ToLower(getEnvOrDefault("PERSONA_PROVIDER", DefaultPersonaProvider)),
			MaxWords:        intVar("PERSONA_MAX_WORDS", DefaultMaxWords),
			MaxTokens:       intVar("PERSONA_MAX_TOKENS", DefaultMaxTokens),
			VideoMode:       strings.ToLower(getEnvOrDefault("VIDEO_MODE", DefaultVideoMode)),
			Voice: VoiceSelection{
				Provider: getEnvOrDefault("DID_VOICE_PROVIDER", DefaultVoiceProvider),
				VoiceID:  getEnvOrDefault("DID_VOICE_ID", DefaultVoiceID),
			},
			PortraitURL: getEnvOrDefault("PORTRAIT_URL", DefaultPortraitURL),
			AudioFormat: getEnvOrDefault("AUDIO_FORMAT", DefaultAudioFormat),
		},
	}

	if len(parseErrs) > 0 {
		return nil, fmt.Errorf("invalid environment: %s", strings.Join(parseErrs, "; "))
	}
	return cfg, nil
}

// LoadWithProfile loads .env, reads the environment and applies an optional
// profile file. It does not validate.
func LoadWithProfile(profilePath string) (*Config, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if profilePath != "" {
		profile, err := LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		cfg.Profile = cfg.Profile.Merge(*profile)
	}
	return cfg, nil
}

// InitializeConfig loads and validates the configuration. This is the main
// entry point for configuration loading.
func InitializeConfig(profilePath string) (*Config, error) {
	cfg, err := LoadWithProfile(profilePath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := getEnv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration like 5s, got %q", key, raw)
	}
	return v, nil
}
