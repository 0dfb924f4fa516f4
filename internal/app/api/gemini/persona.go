package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	apperrors "persona-video/internal/app/errors"
	"persona-video/internal/app/persona"
)

const defaultModel = "gemini-2.0-flash"

// Config describes the persona and the Gemini model to use
type Config struct {
	APIKey      string
	Model       string
	PersonaName string
	MaxWords    int
	MaxTokens   int
}

// ContentGenerator is the subset of the genai Models service used here
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// PersonaGenerator is the Gemini-backed persona reply generator
type PersonaGenerator struct {
	models ContentGenerator
	config Config
	logger *zap.Logger
}

// NewPersonaGenerator creates a Gemini client. A missing key fails before any network call.
func NewPersonaGenerator(ctx context.Context, config Config, logger *zap.Logger) (*PersonaGenerator, error) {
	if config.APIKey == "" {
		return nil, apperrors.Configuration("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.Configuration("failed to create Gemini client: %v", err)
	}
	return NewPersonaGeneratorWithModels(client.Models, config, logger)
}

// NewPersonaGeneratorWithModels wires an existing genai Models service (or a fake)
func NewPersonaGeneratorWithModels(models ContentGenerator, config Config, logger *zap.Logger) (*PersonaGenerator, error) {
	if config.MaxWords <= 0 {
		return nil, apperrors.Configuration("persona max words must be positive, got %d", config.MaxWords)
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonaGenerator{models: models, config: config, logger: logger}, nil
}

// Generate returns a reply of at most MaxWords words
func (g *PersonaGenerator) Generate(ctx context.Context, transcript string) (persona.Reply, error) {
	startTime := time.Now()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			persona.SystemPrompt(g.config.PersonaName, g.config.MaxWords), genai.RoleUser),
		Temperature:     genai.Ptr(float32(persona.Temperature)),
		MaxOutputTokens: int32(persona.MaxTokensFor(g.config.MaxWords, g.config.MaxTokens)),
	}
	contents := []*genai.Content{genai.NewContentFromText(transcript, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, g.config.Model, contents, config)
	if err != nil {
		g.logger.Error("gemini generation failed", zap.Error(err))
		return persona.Reply{}, apperrors.ChatService(statusOf(err), "", err)
	}

	reply, err := persona.Check(firstCandidateText(resp), g.config.MaxWords)
	if err != nil {
		g.logger.Warn("persona reply rejected", zap.Error(err))
		return persona.Reply{}, err
	}

	g.logger.Info("persona reply generated",
		zap.String("model", g.config.Model),
		zap.Int("words", reply.WordCount),
		zap.Duration("elapsed", time.Since(startTime)))
	return reply, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func statusOf(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}
