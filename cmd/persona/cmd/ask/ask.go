package ask

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"persona-video/internal/app"
	"persona-video/internal/app/api/did"
	"persona-video/internal/app/logging"
	"persona-video/internal/app/pipeline"
	"persona-video/internal/app/progress"
	"persona-video/internal/config"
)

var (
	profilePath  string
	format       string
	verbose      bool
	mock         bool
	showProgress bool
)

func init() {
	Cmd.Flags().StringVar(&profilePath, "profile", "", "pipeline profile YAML file")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "audio format hint (default: file extension)")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "log every stage")
	Cmd.Flags().BoolVar(&mock, "mock", false, "use canned stages instead of calling upstream services")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "show progress bars even when stderr is not a terminal")
}

// Cmd represents the ask command
var Cmd = &cobra.Command{
	Use:   "ask <audio-file>",
	Short: "Run one recorded question through the pipeline and print the result",
	Long: `Run one recorded question through the pipeline and print the result

The JSON result goes to stdout. Progress over the stages and the video
status polls goes to stderr when it is a terminal or --progress is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		audio, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read audio file: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger, err := logging.NewLogger(logging.Options{Development: true, Level: level})
		if err != nil {
			return err
		}
		defer logger.Sync()

		manager := progress.NewManager(progress.Config{
			Enabled: progress.ShouldShow(showProgress, cmd.ErrOrStderr()),
			Writer:  cmd.ErrOrStderr(),
		})
		tracker := progress.NewTracker(manager, pipeline.StageCount(cfg.Profile.VideoMode), cfg.DID.MaxPolls)

		a, err := app.Initialize(cmd.Context(), cfg, app.Options{
			Mock:   mock,
			OnPoll: func(job did.Job) { tracker.Poll(job.Terminal()) },
		}, logger)
		if err != nil {
			tracker.Finish(err)
			return err
		}
		a.Pipeline.WithStageObserver(tracker.Stage)

		result, err := a.Pipeline.Run(cmd.Context(), pipeline.Input{Audio: audio, Format: formatHint(args[0])})
		tracker.Finish(err)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// formatHint prefers --format and falls back to the file extension
func formatHint(path string) string {
	if format != "" {
		return format
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// loadConfig validates everything for real runs. Mock runs only need a
// coherent profile.
func loadConfig() (*config.Config, error) {
	if !mock {
		return config.InitializeConfig(profilePath)
	}

	cfg, err := config.LoadWithProfile(profilePath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
