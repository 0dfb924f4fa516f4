package did

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
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
	defaultBaseURL      = "https://api.d-id.com"
	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 60
	defaultTimeout      = 30 * time.Second
	maxErrorBodyLen     = 2048
)

// Config represents configuration for the video service client
type Config struct {
	APIKey       string
	BaseURL      string
	PortraitURL  string
	PollInterval time.Duration
	MaxPolls     int
	Timeout      time.Duration
}

// PollObserver is told about every status query, e.g. for metrics
type PollObserver func(job Job)

// Client submits talking-head jobs and waits for them to finish
type Client struct {
	config  Config
	client  *http.Client
	sleep   resilience.SleepFunc
	observe PollObserver
	logger  *zap.Logger
}

// NewClient fails fast on a missing key or portrait
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, apperrors.Configuration("DID_API_KEY is required")
	}
	if config.PortraitURL == "" {
		return nil, apperrors.Configuration("portrait image URL is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.MaxPolls <= 0 {
		config.MaxPolls = defaultMaxPolls
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		sleep:   resilience.SleepContext,
		observe: func(Job) {},
		logger:  logger,
	}, nil
}

// WithSleep replaces the poll sleeper, for tests
func (c *Client) WithSleep(sleep resilience.SleepFunc) *Client {
	c.sleep = sleep
	return c
}

// WithObserver registers a callback invoked after every status query
func (c *Client) WithObserver(observe PollObserver) *Client {
	c.observe = observe
	return c
}

// AudioDataURL encodes mp3 bytes as an inline data URL script source
func AudioDataURL(mp3 []byte) string {
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(mp3)
}

// Generate submits the script and waits for the finished video URL
func (c *Client) Generate(ctx context.Context, script Script) (string, error) {
	job, err := c.Submit(ctx, script)
	if err != nil {
		return "", err
	}
	return c.Wait(ctx, job.ID)
}

// Submit issues the single create-job call
func (c *Client) Submit(ctx context.Context, script Script) (*Job, error) {
	payload, err := buildScript(script)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(createTalkRequest{
		SourceURL: c.config.PortraitURL,
		Script:    payload,
		Config:    &talkConfig{Stitch: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp talkResponse
	if err := c.do(ctx, http.MethodPost, "/talks", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, apperrors.VideoService(http.StatusOK, "create response has no job id", nil)
	}

	c.logger.Info("video job submitted", zap.String("job_id", resp.ID), zap.String("status", resp.Status), zap.String("script", payload.Type))
	return &Job{ID: resp.ID, Status: normalizeStatus(resp.Status)}, nil
}

// Status queries the job once. Re-querying a job has no side effects.
func (c *Client) Status(ctx context.Context, jobID string) (*Job, error) {
	var resp talkResponse
	if err := c.do(ctx, http.MethodGet, "/talks/"+jobID, nil, &resp); err != nil {
		return nil, err
	}

	job := &Job{ID: jobID, Status: normalizeStatus(resp.Status), ResultURL: resp.videoURL()}
	if resp.Error != nil {
		job.Reason = resp.Error.Description
		if job.Reason == "" {
			job.Reason = resp.Error.Kind
		}
	}
	return job, nil
}

// Wait polls every PollInterval, at most MaxPolls times. The first query
// happens after one interval since a fresh job is never done.
func (c *Client) Wait(ctx context.Context, jobID string) (string, error) {
	startTime := time.Now()

	for poll := 1; poll <= c.config.MaxPolls; poll++ {
		if err := c.sleep(ctx, c.config.PollInterval); err != nil {
			return "", err
		}

		job, err := c.Status(ctx, jobID)
		if err != nil {
			return "", err
		}
		c.observe(*job)

		if !job.Terminal() {
			c.logger.Debug("video job pending", zap.String("job_id", jobID), zap.Int("poll", poll))
			continue
		}

		if job.Status == StatusError {
			c.logger.Error("video job failed", zap.String("job_id", jobID), zap.String("reason", job.Reason))
			return "", apperrors.VideoGenerationFailed(jobID, job.Reason)
		}
		if job.ResultURL == "" {
			return "", apperrors.VideoService(http.StatusOK, "missing result url", nil)
		}
		c.logger.Info("video job finished",
			zap.String("job_id", jobID),
			zap.Int("polls", poll),
			zap.Duration("elapsed", time.Since(startTime)))
		return job.ResultURL, nil
	}

	c.logger.Error("video job timed out", zap.String("job_id", jobID), zap.Int("polls", c.config.MaxPolls))
	return "", apperrors.VideoGenerationTimeout(jobID, c.config.MaxPolls)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.VideoService(0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return apperrors.VideoService(resp.StatusCode, string(errBody), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.VideoService(resp.StatusCode, "invalid JSON response", err)
	}
	return nil
}

func buildScript(script Script) (scriptPayload, error) {
	switch {
	case script.AudioURL != "":
		return scriptPayload{Type: "audio", AudioURL: script.AudioURL}, nil
	case strings.TrimSpace(script.Text) != "":
		if script.Voice.Provider == "" || script.Voice.VoiceID == "" {
			return scriptPayload{}, apperrors.Configuration("text script requires a voice provider and voice id")
		}
		return scriptPayload{
			Type:     "text",
			Input:    script.Text,
			Provider: &providerPayload{Type: script.Voice.Provider, VoiceID: script.Voice.VoiceID},
		}, nil
	default:
		return scriptPayload{}, apperrors.Validation(apperrors.StageVideo, "script needs text or audio")
	}
}
