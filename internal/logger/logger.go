// Package logger builds the zerolog logger shared by the CLI and the TUI.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ConsoleLevel string
	FileLevel    string
	// File receives JSON lines at FileLevel; empty disables file logging.
	File string
	// Console defaults to a human-readable writer on stderr.
	Console io.Writer
}

// New returns a logger writing to the console at ConsoleLevel and, optionally, to File at FileLevel.
// The returned closer releases the log file and is never nil.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	console := cfg.Console
	if console == nil {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	consoleLevel := ParseLevel(cfg.ConsoleLevel)
	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{Writer: zerolog.LevelWriterAdapter{Writer: console}, Level: consoleLevel},
	}
	lowest := consoleLevel

	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("opening log file: %w", err)
		}

		fileLevel := ParseLevel(cfg.FileLevel)
		writers = append(writers,
			&zerolog.FilteredLevelWriter{Writer: zerolog.LevelWriterAdapter{Writer: f}, Level: fileLevel})

		if fileLevel < lowest {
			lowest = fileLevel
		}

		closer = f
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lowest).With().Timestamp().Logger()

	// Libraries logging through the global logger end up in the same sinks.
	log.Logger = zl

	return zl, closer, nil
}

// ParseLevel accepts zerolog level names and the numeric levels of older config files
// (10 debug, 20 info, 30 warn, 40 error, 50 fatal). Unknown values mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug", "10":
		return zerolog.DebugLevel
	case "info", "20":
		return zerolog.InfoLevel
	case "warn", "warning", "30":
		return zerolog.WarnLevel
	case "error", "40":
		return zerolog.ErrorLevel
	case "fatal", "critical", "50":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
