package config

import (
	"fmt"
	"strings"
	"time"

	apperrors "persona-video/internal/app/errors"
)

// MaxWordsLimit bounds the configurable persona word cap
const MaxWordsLimit = 200

// Validate fails fast on anything that would otherwise surface as a failed
// upstream call. Every error is a configuration error.
func (c *Config) Validate() error {
	if c.AccessPassword == "" {
		return apperrors.Configuration("ACCESS_PASSWORD is required")
	}
	if err := ValidatePort(c.Server.Port, "server"); err != nil {
		return apperrors.Configuration("%v", err)
	}
	if err := ValidateTimeout(c.Server.WriteTimeout, "server write"); err != nil {
		return apperrors.Configuration("%v", err)
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}

	// Transcription always runs through OpenAI
	if err := ValidateAPIKey(c.OpenAI.APIKey, "OPENAI_API_KEY"); err != nil {
		return apperrors.Configuration("%v", err)
	}
	if c.Profile.PersonaProvider == PersonaProviderGemini {
		if err := ValidateAPIKey(c.Gemini.APIKey, "GEMINI_API_KEY"); err != nil {
			return apperrors.Configuration("%v", err)
		}
	}

	if err := ValidateAPIKey(c.DID.APIKey, "DID_API_KEY"); err != nil {
		return apperrors.Configuration("%v", err)
	}
	if c.DID.MaxPolls <= 0 || c.DID.MaxPolls > DefaultMaxPolls {
		return apperrors.Configuration("DID_MAX_POLLS must be between 1 and %d, got %d", DefaultMaxPolls, c.DID.MaxPolls)
	}
	if c.DID.PollInterval <= 0 || c.DID.PollInterval > DefaultPollInterval {
		return apperrors.Configuration("DID_POLL_INTERVAL must be positive and at most %s, got %s", DefaultPollInterval, c.DID.PollInterval)
	}

	if c.Profile.VideoMode == VideoModeAudio {
		if err := ValidateAPIKey(c.ElevenLabs.APIKey, "ELEVENLABS_API_KEY"); err != nil {
			return apperrors.Configuration("%v", err)
		}
		if c.ElevenLabs.VoiceID == "" {
			return apperrors.Configuration("ELEVENLABS_VOICE_ID is required for audio video mode")
		}
		for name, v := range map[string]float64{
			"stability":        c.ElevenLabs.Stability,
			"similarity boost": c.ElevenLabs.SimilarityBoost,
			"style":            c.ElevenLabs.Style,
		} {
			if err := ValidateUnitInterval(v, name); err != nil {
				return apperrors.Configuration("%v", err)
			}
		}
	}

	if c.AudioStore.Enabled() {
		if c.AudioStore.AccessKey == "" || c.AudioStore.SecretKey == "" {
			return apperrors.Configuration("AUDIO_STORE_ACCESS_KEY and AUDIO_STORE_SECRET_KEY are required when AUDIO_STORE_ENDPOINT is set")
		}
		if c.AudioStore.Bucket == "" {
			return apperrors.Configuration("AUDIO_STORE_BUCKET is required")
		}
	}

	return nil
}

// Validate checks the pipeline variant settings
func (p Profile) Validate() error {
	if p.MaxWords <= 0 || p.MaxWords > MaxWordsLimit {
		return apperrors.Configuration("max words must be between 1 and %d, got %d", MaxWordsLimit, p.MaxWords)
	}
	if p.MaxTokens <= 0 {
		return apperrors.Configuration("max tokens must be positive, got %d", p.MaxTokens)
	}
	switch p.PersonaProvider {
	case PersonaProviderOpenAI, PersonaProviderGemini:
	default:
		return apperrors.Configuration("unknown persona provider %q", p.PersonaProvider)
	}
	switch p.VideoMode {
	case VideoModeText:
		if p.Voice.Provider == "" || p.Voice.VoiceID == "" {
			return apperrors.Configuration("text video mode requires a voice provider and voice id")
		}
	case VideoModeAudio:
	default:
		return apperrors.Configuration("unknown video mode %q (want %s or %s)", p.VideoMode, VideoModeText, VideoModeAudio)
	}
	if err := ValidateURL(p.PortraitURL, "portrait"); err != nil {
		return apperrors.Configuration("%v", err)
	}
	if p.AudioFormat == "" {
		return apperrors.Configuration("audio format is required")
	}
	return nil
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateAPIKey checks that a credential is present
func ValidateAPIKey(apiKey string, name string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// ValidateUnitInterval checks that v lies in [0, 1]
func ValidateUnitInterval(v float64, name string) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %g", name, v)
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}

	if len(port) > 5 {
		return fmt.Errorf("%s port invalid", name)
	}

	return nil
}
