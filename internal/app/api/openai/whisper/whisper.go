package whisper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	openaiclient "persona-video/internal/app/api/openai"
	apperrors "persona-video/internal/app/errors"
)

// MaxAudioBytes is the upload limit of the transcription endpoint
const MaxAudioBytes = 25 * 1024 * 1024

// Transcriber sends recorded audio to the OpenAI transcription API
type Transcriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewTranscriber creates a Transcriber. The model defaults to whisper-1.
func NewTranscriber(client *openai.Client, model string, logger *zap.Logger) *Transcriber {
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcriber{client: client, model: model, logger: logger}
}

// Transcribe uploads audio as a multipart file named after format (webm, mp3, wav, ...)
// and returns the trimmed transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if len(audio) == 0 {
		return "", apperrors.Validation(apperrors.StageTranscribe, "audio data is empty")
	}
	if len(audio) > MaxAudioBytes {
		return "", apperrors.Validation(apperrors.StageTranscribe,
			fmt.Sprintf("audio is %d bytes, limit is %d", len(audio), MaxAudioBytes))
	}

	startTime := time.Now()
	req := openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "recording." + normalizeFormat(format),
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		status, body := openaiclient.StatusAndBody(err)
		t.logger.Error("transcription failed", zap.Int("status", status), zap.Error(err))
		return "", apperrors.TranscriptionService(status, body, err)
	}

	text := strings.TrimSpace(resp.Text)
	t.logger.Info("transcription complete",
		zap.Int("audio_bytes", len(audio)),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(startTime)))

	if text == "" {
		return "", apperrors.Validation(apperrors.StageTranscribe, "no speech detected in audio")
	}
	return text, nil
}

// normalizeFormat maps a MIME type or codec hint to a file extension the API accepts
func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if i := strings.Index(f, ";"); i >= 0 {
		f = f[:i]
	}
	f = strings.TrimPrefix(f, "audio/")
	f = strings.TrimPrefix(f, ".")

	switch f {
	case "":
		return "webm"
	case "mpeg", "mpga":
		return "mp3"
	case "x-m4a", "mp4":
		return "m4a"
	case "x-wav", "wave":
		return "wav"
	default:
		return f
	}
}
