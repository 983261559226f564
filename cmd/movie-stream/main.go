package main

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "movie-stream",
	Short: "Resolve playable streams for movies and episodes",
	Long: `movie-stream finds playable video sources for a title by walking a
cascade of Consumet providers and their delivery servers, or by asking a
Torrentio-compatible aggregator directly.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, resolveCmd, torrentioCmd, versionCmd)
}

// setup loads .env, reloads configuration so those variables apply, and starts Sentry.
func setup(cmd *cobra.Command, args []string) error {
	logger := config.GetLogger()
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	var err error
	cfg, err = config.Reload()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     "movie-stream@" + Version,
		})
		if err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
		}
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	sentry.Flush(2 * time.Second)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}
