package cmd

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/jsphweid/chordgen/config"
	"github.com/jsphweid/chordgen/logger"
	"github.com/spf13/cobra"
)

var cfg = config.Load()

var rootCmd = &cobra.Command{
	Use:   "chordgen",
	Short: "Random functional harmony chord progressions",
	Long: `Generates chord progressions that follow a tonic, pre-dominant, dominant
cycle, lays them out on a rhythm grid, and plays or exports them as MIDI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setup()
	},
}

func setup() {
	// .env is optional
	_ = godotenv.Load()
	cfg = config.Load()

	if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", logger.Fields{"level": cfg.LogLevel})
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentryOptions(cfg)); err != nil {
			logger.Warn("sentry init failed", logger.Fields{"error": err.Error()})
		}
	}
}

// sentryOptions turns on the client's debug output outside production.
func sentryOptions(c *config.Config) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:         c.SentryDSN,
		Environment: c.Environment,
		Debug:       !c.IsProduction(),
	}
}

func Execute() {
	defer sentry.Flush(2 * time.Second)
	cobra.CheckErr(rootCmd.Execute())
}
