// Package pipeline runs one question through transcription, persona reply,
// optional speech synthesis and video generation, in that order.
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"persona-video/internal/app/api/did"
	"persona-video/internal/app/api/elevenlabs"
	apperrors "persona-video/internal/app/errors"
	"persona-video/internal/app/persona"
	"persona-video/internal/app/storage"
)

// Video modes
const (
	ModeText  = "text"
	ModeAudio = "audio"
)

// Transcriber turns recorded audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// ReplyGenerator answers a transcript in the persona's voice
type ReplyGenerator interface {
	Generate(ctx context.Context, transcript string) (persona.Reply, error)
}

// SpeechSynthesizer voices the reply as mp3
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (*elevenlabs.Audio, error)
}

// VideoGenerator renders the portrait speaking the script
type VideoGenerator interface {
	Generate(ctx context.Context, script did.Script) (string, error)
}

// Config selects the pipeline variant
type Config struct {
	MaxWords    int
	VideoMode   string
	Voice       did.Voice
	AudioFormat string
}

// Stages holds the stage implementations. Synthesizer and Store are only
// used in audio mode; Store defaults to inline data URLs.
type Stages struct {
	Transcriber Transcriber
	Generator   ReplyGenerator
	Synthesizer SpeechSynthesizer
	Store       storage.AudioStore
	Video       VideoGenerator
}

// Input is one inbound question
type Input struct {
	Audio []byte
	// Format overrides Config.AudioFormat when set
	Format string
}

// Result is the only success payload the caller sees
type Result struct {
	Transcription string `json:"transcription"`
	Response      string `json:"response"`
	VideoURL      string `json:"videoUrl"`
}

// StageObserver is told about every finished stage, e.g. for progress output
type StageObserver func(stage string, err error)

// StageCount returns how many stages a run in mode executes
func StageCount(mode string) int {
	if mode == ModeAudio {
		return 5
	}
	return 3
}

// Pipeline is safe for concurrent use; runs share no mutable state
type Pipeline struct {
	config  Config
	stages  Stages
	metrics *Metrics
	observe StageObserver
	logger  *zap.Logger
}

// New validates the variant against the supplied stages
func New(config Config, stages Stages, metrics *Metrics, logger *zap.Logger) (*Pipeline, error) {
	if config.MaxWords <= 0 {
		return nil, apperrors.Configuration("max words must be positive")
	}
	if stages.Transcriber == nil || stages.Generator == nil || stages.Video == nil {
		return nil, apperrors.Configuration("transcriber, reply generator and video generator are required")
	}
	switch config.VideoMode {
	case ModeText:
		if config.Voice.Provider == "" || config.Voice.VoiceID == "" {
			return nil, apperrors.Configuration("text video mode requires a voice provider and voice id")
		}
	case ModeAudio:
		if stages.Synthesizer == nil {
			return nil, apperrors.Configuration("audio video mode requires a speech synthesizer")
		}
		if stages.Store == nil {
			stages.Store = storage.InlineStore{}
		}
	default:
		return nil, apperrors.Configuration("unknown video mode %q", config.VideoMode)
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{config: config, stages: stages, metrics: metrics, observe: func(string, error) {}, logger: logger}, nil
}

// WithStageObserver registers a callback invoked after every stage. Set it
// before the first Run.
func (p *Pipeline) WithStageObserver(observe StageObserver) *Pipeline {
	p.observe = observe
	return p
}

// Config returns the variant this pipeline runs
func (p *Pipeline) Config() Config {
	return p.config
}

// Run executes every stage in order and stops at the first failure.
// Nothing is returned unless the video URL was produced.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if len(in.Audio) == 0 {
		return nil, apperrors.Validation(apperrors.StageTranscribe, "audio data is required")
	}
	format := in.Format
	if format == "" {
		format = p.config.AudioFormat
	}

	startTime := time.Now()

	var transcript string
	err := p.stage(apperrors.StageTranscribe, func() (err error) {
		transcript, err = p.stages.Transcriber.Transcribe(ctx, in.Audio, format)
		if err == nil && strings.TrimSpace(transcript) == "" {
			err = apperrors.Validation(apperrors.StageTranscribe, "no speech detected in audio")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var reply persona.Reply
	err = p.stage(apperrors.StagePersona, func() (err error) {
		reply, err = p.stages.Generator.Generate(ctx, transcript)
		if err != nil {
			return err
		}
		reply, err = persona.Check(reply.Text, p.config.MaxWords)
		return err
	})
	if err != nil {
		return nil, err
	}

	script, err := p.script(ctx, reply.Text)
	if err != nil {
		return nil, err
	}

	var videoURL string
	err = p.stage(apperrors.StageVideo, func() (err error) {
		videoURL, err = p.stages.Video.Generate(ctx, script)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("pipeline completed",
		zap.String("mode", p.config.VideoMode),
		zap.Int("reply_words", reply.WordCount),
		zap.Duration("elapsed", time.Since(startTime)))

	return &Result{Transcription: transcript, Response: reply.Text, VideoURL: videoURL}, nil
}

// script builds the video script for the configured mode. Audio mode
// synthesizes speech and stores it before the video job is submitted.
func (p *Pipeline) script(ctx context.Context, text string) (did.Script, error) {
	if p.config.VideoMode == ModeText {
		return did.Script{Text: text, Voice: p.config.Voice}, nil
	}

	var audio *elevenlabs.Audio
	err := p.stage(apperrors.StageSynthesize, func() (err error) {
		audio, err = p.stages.Synthesizer.Synthesize(ctx, text)
		return err
	})
	if err != nil {
		return did.Script{}, err
	}

	var audioURL string
	err = p.stage(apperrors.StageStorage, func() (err error) {
		audioURL, err = p.stages.Store.Put(ctx, audio.Payload)
		return err
	})
	if err != nil {
		return did.Script{}, err
	}
	return did.Script{AudioURL: audioURL}, nil
}

func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	p.logger.Debug("stage started", zap.String("stage", name))

	err := fn()
	p.metrics.ObserveStage(name, time.Since(start), err)
	p.observe(name, err)
	if err != nil {
		p.logger.Error("stage failed",
			zap.String("stage", name),
			zap.String("kind", string(apperrors.KindOf(err))),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return err
	}

	p.logger.Debug("stage finished", zap.String("stage", name), zap.Duration("elapsed", time.Since(start)))
	return nil
}
