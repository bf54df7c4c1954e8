package commands

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"uniformgen/internal/infra"
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline events to stderr")
}

// loadEnv reads the same environment as the API server. backend, when set, overrides
// IMAGE_BACKEND for this invocation.
func loadEnv(backend string) (*infra.Config, infra.Logger, error) {
	if backend != "" {
		if err := os.Setenv("IMAGE_BACKEND", backend); err != nil {
			return nil, zerolog.Nop(), err
		}
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := infra.NewLogger(cfg.AppEnv).
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level)
	return cfg, logger, nil
}
