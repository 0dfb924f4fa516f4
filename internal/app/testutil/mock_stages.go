package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"persona-video/internal/app/api/did"
	"persona-video/internal/app/api/elevenlabs"
	"persona-video/internal/app/persona"
)

// MockTranscriber implements pipeline.Transcriber
type MockTranscriber struct {
	mock.Mock
}

// NewMockTranscriber creates an unprimed mock
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	args := m.Called(ctx, audio, format)
	return args.String(0), args.Error(1)
}

// MockReplyGenerator implements pipeline.ReplyGenerator
type MockReplyGenerator struct {
	mock.Mock
}

func NewMockReplyGenerator() *MockReplyGenerator {
	return &MockReplyGenerator{}
}

func (m *MockReplyGenerator) Generate(ctx context.Context, transcript string) (persona.Reply, error) {
	args := m.Called(ctx, transcript)
	return args.Get(0).(persona.Reply), args.Error(1)
}

// MockSynthesizer implements pipeline.SpeechSynthesizer
type MockSynthesizer struct {
	mock.Mock
}

func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (*elevenlabs.Audio, error) {
	args := m.Called(ctx, text)
	if audio := args.Get(0); audio != nil {
		return audio.(*elevenlabs.Audio), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAudioStore implements storage.AudioStore
type MockAudioStore struct {
	mock.Mock
}

func NewMockAudioStore() *MockAudioStore {
	return &MockAudioStore{}
}

func (m *MockAudioStore) Put(ctx context.Context, mp3 []byte) (string, error) {
	args := m.Called(ctx, mp3)
	return args.String(0), args.Error(1)
}

// MockVideoGenerator implements pipeline.VideoGenerator
type MockVideoGenerator struct {
	mock.Mock
}

func NewMockVideoGenerator() *MockVideoGenerator {
	return &MockVideoGenerator{}
}

func (m *MockVideoGenerator) Generate(ctx context.Context, script did.Script) (string, error) {
	args := m.Called(ctx, script)
	return args.String(0), args.Error(1)
}
