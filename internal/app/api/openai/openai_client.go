package openai

import (
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "persona-video/internal/app/errors"
)

// DefaultTimeout bounds a single transcription or chat call
const DefaultTimeout = 60 * time.Second

// ClientConfig holds what is needed to reach the OpenAI API
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient builds a go-openai client. A missing key is a configuration
// error and no client is created.
func NewClient(cfg ClientConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.Configuration("OPENAI_API_KEY is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return openai.NewClientWithConfig(clientConfig), nil
}

// StatusAndBody extracts the HTTP status and upstream message from a go-openai error
func StatusAndBody(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if len(reqErr.Body) > 0 {
			return reqErr.HTTPStatusCode, string(reqErr.Body)
		}
		if reqErr.Err != nil {
			return reqErr.HTTPStatusCode, reqErr.Err.Error()
		}
		return reqErr.HTTPStatusCode, ""
	}

	return 0, ""
}
