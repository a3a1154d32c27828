// Package logger sets up zerolog for the ringws binaries.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LevelEnv names the environment variable holding the log level.
const LevelEnv = "RINGWS_LOG_LEVEL"

// Options selects where logs go.
type Options struct {
	// File receives JSON logs when set. Otherwise logs go to Out.
	File string
	// Pretty uses a human-readable console format; ignored with File.
	Pretty bool
	// Out defaults to os.Stderr so command output on stdout stays clean.
	Out io.Writer
}

// Init builds a logger whose level comes from RINGWS_LOG_LEVEL (trace, debug,
// info, warn, error). An unset or unknown level means warn. The returned
// closer releases the log file, if any.
func Init(opts Options) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(os.Getenv(LevelEnv))

	var output io.Writer
	closer := io.Closer(nopCloser{})
	switch {
	case opts.File != "":
		//nolint:gosec // G304: User-specified log file path is intentional
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}
		output = file
		closer = file
	case opts.Pretty:
		output = zerolog.ConsoleWriter{Out: outOrStderr(opts.Out)}
	default:
		output = outOrStderr(opts.Out)
	}

	log := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
	log.Debug().Str("level", level.String()).Bool("file", opts.File != "").Msg("Logger initialized")
	return log, closer, nil
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning", "":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

func outOrStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
