package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options control how the service logger is built
type Options struct {
	Development bool
	// Level is one of debug, info, warn, error. Empty keeps the preset's level.
	Level string
}

// NewLogger creates the zap logger shared by the server, the CLI and the pipeline stages
func NewLogger(opts Options) (*zap.Logger, error) {
	var config zap.Config

	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	return config.Build(zap.Fields(zap.String("service", "persona-video")))
}
