// Package logging configures the process-wide zerolog logger. Credentials,
// password hashes and raw tokens must never be passed to it.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "production" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	// Human-readable output for local development.
	writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	return zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
