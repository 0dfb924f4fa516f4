package pipeline

import (
	"context"
	"fmt"
	"time"

	"persona-video/internal/app/api/did"
	"persona-video/internal/app/api/elevenlabs"
	"persona-video/internal/app/persona"
)

// NewMockStages returns canned stages for developing the browser client
// without upstream credentials. Never wired outside the --mock flag.
func NewMockStages(delay time.Duration) Stages {
	return Stages{
		Transcriber: mockTranscriber{delay: delay},
		Generator:   mockGenerator{delay: delay},
		Synthesizer: mockSynthesizer{delay: delay},
		Video:       mockVideo{delay: delay},
	}
}

const (
	mockTranscript = "What does liberty mean to you?"
	mockReply      = "Liberty, my friend, is the right of every person to rise by their own labor, and no government should deny it."
	mockVideoURL   = "https://example.com/videos/mock-portrait.mp4"
)

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

type mockTranscriber struct{ delay time.Duration }

func (m mockTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	return mockTranscript, wait(ctx, m.delay)
}

type mockGenerator struct{ delay time.Duration }

func (m mockGenerator) Generate(ctx context.Context, transcript string) (persona.Reply, error) {
	if err := wait(ctx, m.delay); err != nil {
		return persona.Reply{}, err
	}
	return persona.Reply{Text: mockReply, WordCount: persona.CountWords(mockReply)}, nil
}

type mockSynthesizer struct{ delay time.Duration }

func (m mockSynthesizer) Synthesize(ctx context.Context, text string) (*elevenlabs.Audio, error) {
	if err := wait(ctx, m.delay); err != nil {
		return nil, err
	}
	return &elevenlabs.Audio{Payload: []byte("ID3mock"), Encoding: "mp3"}, nil
}

type mockVideo struct{ delay time.Duration }

func (m mockVideo) Generate(ctx context.Context, script did.Script) (string, error) {
	if err := wait(ctx, m.delay); err != nil {
		return "", err
	}
	if script.Text == "" && script.AudioURL == "" {
		return "", fmt.Errorf("mock video: empty script")
	}
	return mockVideoURL, nil
}
