package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages outside infra can accept a
// logger without importing the third-party module directly.
type Logger = zerolog.Logger

// NewLogger builds the service logger. Development runs get debug level and
// a human-readable console writer; everything else logs JSON at info.
func NewLogger(appEnv string) Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", "fledge").
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

// Component returns a child logger tagged with the component name.
func Component(l Logger, name string) Logger {
	return l.With().Str("component", name).Logger()
}

// DiscardLogger returns a logger that drops everything, for optional
// logger fields and tests.
func DiscardLogger() *Logger {
	l := zerolog.New(io.Discard)
	return &l
}
