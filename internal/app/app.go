// Package app assembles the pipeline from configuration
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"persona-video/internal/app/api/did"
	"persona-video/internal/app/api/elevenlabs"
	"persona-video/internal/app/api/gemini"
	openaiclient "persona-video/internal/app/api/openai"
	"persona-video/internal/app/api/openai/chat"
	"persona-video/internal/app/api/openai/whisper"
	"persona-video/internal/app/pipeline"
	"persona-video/internal/app/storage"
	"persona-video/internal/config"
)

// Options controls assembly
type Options struct {
	// Mock swaps every upstream stage for canned responses
	Mock bool
	// OnPoll is called after every video status query, next to the poll metrics
	OnPoll did.PollObserver
}

// App is the assembled pipeline and its metrics registry
type App struct {
	Pipeline *pipeline.Pipeline
	Registry *prometheus.Registry
}

// NewRegistry returns a registry with the Go and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Initialize builds every stage the profile needs. Construction makes no
// upstream calls except the optional bucket check of the audio store.
func Initialize(ctx context.Context, cfg *config.Config, opts Options, logger *zap.Logger) (*App, error) {
	reg := NewRegistry()
	metrics := pipeline.NewMetrics(reg)

	var (
		stages pipeline.Stages
		err    error
	)
	if opts.Mock {
		logger.Warn("mock stages enabled, no upstream service will be called")
		stages = pipeline.NewMockStages(0)
	} else {
		stages, err = provideStages(ctx, cfg, opts, metrics, logger)
		if err != nil {
			return nil, err
		}
	}

	p, err := pipeline.New(providePipelineConfig(cfg.Profile), stages, metrics, logger)
	if err != nil {
		return nil, err
	}
	return &App{Pipeline: p, Registry: reg}, nil
}

func providePipelineConfig(profile config.Profile) pipeline.Config {
	return pipeline.Config{
		MaxWords:    profile.MaxWords,
		VideoMode:   profile.VideoMode,
		Voice:       did.Voice{Provider: profile.Voice.Provider, VoiceID: profile.Voice.VoiceID},
		AudioFormat: profile.AudioFormat,
	}
}

func provideStages(ctx context.Context, cfg *config.Config, opts Options, metrics *pipeline.Metrics, logger *zap.Logger) (pipeline.Stages, error) {
	client, err := openaiclient.NewClient(openaiclient.ClientConfig{APIKey: cfg.OpenAI.APIKey, BaseURL: cfg.OpenAI.BaseURL})
	if err != nil {
		return pipeline.Stages{}, err
	}

	generator, err := provideReplyGenerator(ctx, cfg, client, logger)
	if err != nil {
		return pipeline.Stages{}, err
	}

	video, err := did.NewClient(did.Config{
		APIKey:       cfg.DID.APIKey,
		BaseURL:      cfg.DID.BaseURL,
		PortraitURL:  cfg.Profile.PortraitURL,
		PollInterval: cfg.DID.PollInterval,
		MaxPolls:     cfg.DID.MaxPolls,
	}, logger.Named("did"))
	if err != nil {
		return pipeline.Stages{}, err
	}
	video.WithObserver(func(job did.Job) {
		metrics.ObservePoll(job)
		if opts.OnPoll != nil {
			opts.OnPoll(job)
		}
	})

	stages := pipeline.Stages{
		Transcriber: whisper.NewTranscriber(client, "", logger.Named("whisper")),
		Generator:   generator,
		Video:       video,
	}

	if cfg.Profile.VideoMode == config.VideoModeAudio {
		synthesizer, err := elevenlabs.NewSynthesizer(elevenlabs.Config{
			APIKey:          cfg.ElevenLabs.APIKey,
			BaseURL:         cfg.ElevenLabs.BaseURL,
			VoiceID:         cfg.ElevenLabs.VoiceID,
			ModelID:         cfg.ElevenLabs.ModelID,
			Stability:       cfg.ElevenLabs.Stability,
			SimilarityBoost: cfg.ElevenLabs.SimilarityBoost,
			Style:           cfg.ElevenLabs.Style,
		}, logger.Named("elevenlabs"))
		if err != nil {
			return pipeline.Stages{}, err
		}
		stages.Synthesizer = synthesizer

		store, err := provideAudioStore(ctx, cfg.AudioStore, logger)
		if err != nil {
			return pipeline.Stages{}, err
		}
		stages.Store = store
	}

	return stages, nil
}

func provideReplyGenerator(ctx context.Context, cfg *config.Config, client *goopenai.Client, logger *zap.Logger) (pipeline.ReplyGenerator, error) {
	profile := cfg.Profile

	if profile.PersonaProvider == config.PersonaProviderGemini {
		generator, err := gemini.NewPersonaGenerator(ctx, gemini.Config{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.Model,
			PersonaName: profile.PersonaName,
			MaxWords:    profile.MaxWords,
			MaxTokens:   profile.MaxTokens,
		}, logger.Named("gemini"))
		if err != nil {
			return nil, err
		}
		return generator, nil
	}

	generator, err := chat.NewPersonaGenerator(client, chat.Config{
		Model:       cfg.OpenAI.ChatModel,
		PersonaName: profile.PersonaName,
		MaxWords:    profile.MaxWords,
		MaxTokens:   profile.MaxTokens,
	}, logger.Named("chat"))
	if err != nil {
		return nil, err
	}
	return generator, nil
}

func provideAudioStore(ctx context.Context, cfg config.AudioStoreConfig, logger *zap.Logger) (storage.AudioStore, error) {
	if !cfg.Enabled() {
		return storage.InlineStore{}, nil
	}
	store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:   cfg.Endpoint,
		AccessKey:  cfg.AccessKey,
		SecretKey:  cfg.SecretKey,
		Bucket:     cfg.Bucket,
		UseSSL:     cfg.UseSSL,
		PresignTTL: cfg.PresignTTL,
	}, logger.Named("storage"))
	if err != nil {
		return nil, err
	}
	return store, nil
}
