package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona-video/internal/api/server"
	"persona-video/internal/app"
	"persona-video/internal/app/logging"
	"persona-video/internal/config"
)

var (
	host        string
	port        string
	profilePath string
	mock        bool
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	Cmd.Flags().StringVar(&profilePath, "profile", "", "pipeline profile YAML file")
	Cmd.Flags().BoolVar(&mock, "mock", false, "serve canned responses instead of calling upstream services")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server

- POST /api/ask runs the pipeline (also mounted at /api/generate)
- GET /health and GET /metrics are always available
- --mock answers with canned stages and needs no upstream credentials`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if host != "" {
			cfg.Server.Host = host
		}
		if port != "" {
			cfg.Server.Port = port
		}

		logger, err := logging.NewLogger(logging.Options{
			Development: cfg.Server.Environment != "production",
			Level:       cfg.LogLevel,
		})
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := app.Initialize(cmd.Context(), cfg, app.Options{Mock: mock}, logger)
		if err != nil {
			return err
		}

		srv := server.NewServer(server.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			Environment:    cfg.Server.Environment,
			AccessPassword: cfg.AccessPassword,
			StaticDir:      cfg.Server.StaticDir,
		}, a.Pipeline, a.Registry, logger)

		errCh := srv.Start()

		shutdownCh := make(chan os.Signal, 1)
		signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case sig := <-shutdownCh:
			logger.Info("Received signal", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

// loadConfig validates everything for real runs. Mock runs only need the
// access password and a coherent profile.
func loadConfig() (*config.Config, error) {
	if !mock {
		return config.InitializeConfig(profilePath)
	}

	cfg, err := config.LoadWithProfile(profilePath)
	if err != nil {
		return nil, err
	}
	if cfg.AccessPassword == "" {
		return nil, fmt.Errorf("ACCESS_PASSWORD is required")
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
