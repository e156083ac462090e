// Package logger initializes the global zerolog logger used throughout
// schemarunner, called by each subcommand (through internal/cmd's
// loadAll) after loading configuration and before doing its own work.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MrYazdan/schemarunner/internal/config"
)

// Init configures the global zerolog logger from cfg.Log. Pretty selects
// a human-readable console writer; otherwise logs are emitted as JSON to
// stdout, suited to being piped into a log aggregator when schemarunner
// runs as part of a deploy pipeline.
func Init(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(writer).With().Timestamp().Caller().Logger()
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
