package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger.
// In production the output is plain JSON; otherwise a console writer is used.
func Init(level string, isProduction bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if !isProduction {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
		log.Warn().Str("level", level).Msg("unknown log level, falling back to info")
	}
	zerolog.SetGlobalLevel(lvl)
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
