// Package common holds the logging setup and HTTP middleware shared by the gateway's servers.
package common

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger.
// format is "json" (default) or "console" for human readable output.
func SetupLogging(level, format string) error {
	return setupLogging(os.Stderr, level, format)
}

func setupLogging(w io.Writer, level, format string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	switch format {
	case "", "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	case "console":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	log.Debug().Str("level", lvl.String()).Str("format", format).Msg("Logging configured")
	return nil
}
