package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	apperrors "persona-video/internal/app/errors"
)

type mockModels struct {
	mock.Mock
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func newTestGenerator(t *testing.T, models *mockModels, maxWords int) *PersonaGenerator {
	g, err := NewPersonaGeneratorWithModels(models, Config{
		PersonaName: "Abraham Lincoln",
		MaxWords:    maxWords,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return g
}

func TestPersonaGenerator_Generate(t *testing.T) {
	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, defaultModel,
		mock.MatchedBy(func(contents []*genai.Content) bool {
			return len(contents) == 1 && contents[0].Parts[0].Text == "What is liberty?"
		}),
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.SystemInstruction != nil &&
				strings.Contains(cfg.SystemInstruction.Parts[0].Text, "Abraham Lincoln") &&
				cfg.Temperature != nil && *cfg.Temperature == float32(0.7) &&
				cfg.MaxOutputTokens > 0
		}),
	).Return(textResponse("Liberty is ", "the fruit of one's own labor. "), nil)

	reply, err := newTestGenerator(t, models, 25).Generate(context.Background(), "What is liberty?")

	require.NoError(t, err)
	assert.Equal(t, "Liberty is the fruit of one's own labor.", reply.Text)
	assert.Equal(t, 8, reply.WordCount)
	models.AssertExpectations(t)
}

func TestPersonaGenerator_Failures(t *testing.T) {
	tests := []struct {
		name        string
		resp        *genai.GenerateContentResponse
		err         error
		expectedErr error
	}{
		{"too long", textResponse(strings.Repeat("union ", 11)), nil, apperrors.ErrResponseTooLong},
		{"no candidates", &genai.GenerateContentResponse{}, nil, apperrors.ErrEmptyGeneration},
		{"blank text", textResponse("  "), nil, apperrors.ErrEmptyGeneration},
		{"api error", nil, genai.APIError{Code: 503, Message: "unavailable"}, apperrors.ErrUpstream},
		{"transport error", nil, errors.New("connection reset"), apperrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models := &mockModels{}
			models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(tt.resp, tt.err)

			_, err := newTestGenerator(t, models, 10).Generate(context.Background(), "Tell me of the war.")
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestNewPersonaGeneratorRequiresKey(t *testing.T) {
	_, err := NewPersonaGenerator(context.Background(), Config{MaxWords: 10}, nil)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 429, statusOf(genai.APIError{Code: 429}))
	assert.Equal(t, 500, statusOf(&genai.APIError{Code: 500}))
	assert.Equal(t, 0, statusOf(errors.New("plain")))
}
