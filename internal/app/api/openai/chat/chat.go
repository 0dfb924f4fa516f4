package chat

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	openaiclient "persona-video/internal/app/api/openai"
	apperrors "persona-video/internal/app/errors"
	"persona-video/internal/app/persona"
)

// Config describes the persona and the completion bounds
type Config struct {
	Model       string
	PersonaName string
	MaxWords    int
	// MaxTokens is raised to fit MaxWords if set too low
	MaxTokens int
}

// PersonaGenerator answers a transcript in the persona's voice via chat completion
type PersonaGenerator struct {
	client *openai.Client
	config Config
	logger *zap.Logger
}

// NewPersonaGenerator creates a generator; MaxWords must be positive
func NewPersonaGenerator(client *openai.Client, config Config, logger *zap.Logger) (*PersonaGenerator, error) {
	if config.MaxWords <= 0 {
		return nil, apperrors.Configuration("persona max words must be positive, got %d", config.MaxWords)
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonaGenerator{client: client, config: config, logger: logger}, nil
}

// Generate returns a reply of at most MaxWords words
func (g *PersonaGenerator) Generate(ctx context.Context, transcript string) (persona.Reply, error) {
	startTime := time.Now()

	request := openai.ChatCompletionRequest{
		Model: g.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: persona.SystemPrompt(g.config.PersonaName, g.config.MaxWords),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: transcript,
			},
		},
		MaxTokens:   persona.MaxTokensFor(g.config.MaxWords, g.config.MaxTokens),
		Temperature: persona.Temperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		status, body := openaiclient.StatusAndBody(err)
		g.logger.Error("chat completion failed", zap.Int("status", status), zap.Error(err))
		return persona.Reply{}, apperrors.ChatService(status, body, err)
	}

	if len(resp.Choices) == 0 {
		return persona.Reply{}, apperrors.EmptyGeneration()
	}

	reply, err := persona.Check(resp.Choices[0].Message.Content, g.config.MaxWords)
	if err != nil {
		g.logger.Warn("persona reply rejected",
			zap.Error(err),
			zap.String("finish_reason", string(resp.Choices[0].FinishReason)))
		return persona.Reply{}, err
	}

	g.logger.Info("persona reply generated",
		zap.String("model", g.config.Model),
		zap.Int("words", reply.WordCount),
		zap.Duration("elapsed", time.Since(startTime)))
	return reply, nil
}
