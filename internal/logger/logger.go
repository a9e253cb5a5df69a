// Package logger configures the global zerolog logger for beacon.
//
// Hooks communicate with Claude Code over stdout, so all logging goes to
// stderr. Each invocation gets an invocation_id field so overlapping hook
// processes can be told apart in the debug stream.
package logger

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initializes the global logger at the given level and tags every
// entry with a fresh invocation id.
func Setup(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Str("invocation_id", uuid.NewString()).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
