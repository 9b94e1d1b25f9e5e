package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New constructs the process logger. Console output goes to w (stderr in the
// CLI, so the progress UI keeps stdout to itself); verbose enables debug.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Logger aliases zerolog.Logger so the rest of the codebase can depend on
// the logging contract without importing the third-party module directly.
type Logger = zerolog.Logger
