package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "persona-video/internal/app/errors"
	"persona-video/internal/app/resilience"
)

const (
	defaultBaseURL  = "https://api.elevenlabs.io/v1"
	defaultModelID  = "eleven_multilingual_v2"
	defaultTimeout  = 60 * time.Second
	maxErrorBodyLen = 2048

	// busySignature appears in the error body when the service sheds load
	busySignature = "system_busy"
)

// Config represents configuration for the speech synthesizer
type Config struct {
	APIKey          string
	BaseURL         string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	Timeout         time.Duration
}

// VoiceSettings is the voice_settings object of a synthesis request
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Request is the text-to-speech request payload
type Request struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Audio is synthesized speech
type Audio struct {
	Payload  []byte
	Encoding string
}

// Synthesizer turns reply text into mp3 speech
type Synthesizer struct {
	config Config
	client *http.Client
	retry  resilience.RetryConfig
	logger *zap.Logger
}

// statusError is one failed attempt, kept so the last one can be surfaced
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

// NewSynthesizer validates the credentials up front; nothing is sent until Synthesize
func NewSynthesizer(config Config, logger *zap.Logger) (*Synthesizer, error) {
	if config.APIKey == "" {
		return nil, apperrors.Configuration("ELEVENLABS_API_KEY is required")
	}
	if config.VoiceID == "" {
		return nil, apperrors.Configuration("ELEVENLABS_VOICE_ID is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.ModelID == "" {
		config.ModelID = defaultModelID
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	retry := resilience.DefaultRetryConfig()
	retry.IsRetryable = isRetryable
	retry.Logger = logger

	return &Synthesizer{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		retry:  retry,
		logger: logger,
	}, nil
}

// WithSleep replaces the backoff sleeper, for tests
func (s *Synthesizer) WithSleep(sleep resilience.SleepFunc) *Synthesizer {
	s.retry.Sleep = sleep
	return s
}

// Synthesize converts text to mp3. 429 and system-busy responses are retried
// with a 2s doubling backoff for 3 attempts in total; anything else fails at once.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation(apperrors.StageSynthesize, "text cannot be empty")
	}

	payload, err := json.Marshal(Request{
		Text:    text,
		ModelID: s.config.ModelID,
		VoiceSettings: VoiceSettings{
			Stability:       s.config.Stability,
			SimilarityBoost: s.config.SimilarityBoost,
			Style:           s.config.Style,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	startTime := time.Now()
	var audio []byte
	err = resilience.Retry(ctx, s.retry, func(attempt int) error {
		var callErr error
		audio, callErr = s.call(ctx, payload)
		if callErr != nil {
			s.logger.Debug("synthesis attempt failed", zap.Int("attempt", attempt), zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.logger.Info("speech synthesized",
		zap.String("voice_id", s.config.VoiceID),
		zap.Int("bytes", len(audio)),
		zap.Duration("elapsed", time.Since(startTime)))
	return &Audio{Payload: audio, Encoding: "mp3"}, nil
}

func (s *Synthesizer) call(ctx context.Context, payload []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/text-to-speech/%s", s.config.BaseURL, s.config.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call speech synthesis API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return nil, &statusError{status: resp.StatusCode, body: string(body)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, &statusError{status: resp.StatusCode, body: "empty audio response"}
	}
	return audio, nil
}

func (s *Synthesizer) mapError(err error) error {
	var exhausted *resilience.ExhaustedError
	if errors.As(err, &exhausted) {
		s.logger.Error("speech synthesis rate limited", zap.Int("attempts", exhausted.Attempts), zap.Error(exhausted.Last))
		return apperrors.RateLimitExceeded(exhausted.Attempts, exhausted.Last)
	}

	var se *statusError
	if errors.As(err, &se) {
		s.logger.Error("speech synthesis failed", zap.Int("status", se.status))
		return apperrors.SynthesisService(se.status, se.body, err)
	}
	return apperrors.SynthesisService(0, "", err)
}

func isRetryable(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.status == http.StatusTooManyRequests || strings.Contains(se.body, busySignature)
}
