package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageErrorIsMatchesKind(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		target error
	}{
		{"configuration", Configuration("OPENAI_API_KEY is required"), ErrConfiguration},
		{"authentication", Authentication("access password mismatch"), ErrAuthentication},
		{"transcription", TranscriptionService(500, "boom", nil), ErrUpstream},
		{"rate limit", RateLimitExceeded(3, stderrors.New("429")), ErrRateLimit},
		{"too long", ResponseTooLong(50, 45), ErrResponseTooLong},
		{"empty", EmptyGeneration(), ErrEmptyGeneration},
		{"video failed", VideoGenerationFailed("tlk_1", "face not found"), ErrVideoFailed},
		{"video timeout", VideoGenerationTimeout("tlk_1", 60), ErrVideoTimeout},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("stage: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.target)
			if tc.target != ErrAuthentication {
				assert.NotErrorIs(t, wrapped, ErrAuthentication)
			}
		})
	}
}

func TestUpstreamMessageCarriesBody(t *testing.T) {
	err := TranscriptionService(400, `{"error":"bad audio"}`, nil)

	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "bad audio")

	var se *StageError
	assert.True(t, stderrors.As(err, &se))
	assert.Equal(t, StageTranscribe, se.Stage)
	assert.Equal(t, `{"error":"bad audio"}`, se.Body)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindVideoTimeout, KindOf(fmt.Errorf("x: %w", VideoGenerationTimeout("a", 1))))
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
}
