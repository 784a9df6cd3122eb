// Package log provides structured logging for the SDK.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the root logger instance.
var Logger zerolog.Logger

// Component loggers for the SDK's moving parts.
var (
	Mint       zerolog.Logger
	Trade      zerolog.Logger
	Ledger     zerolog.Logger
	Rest       zerolog.Logger
	Auth       zerolog.Logger
	Collection zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stderr, "info")
	initComponentLoggers()
}

// Init reconfigures the root logger. JSON output suits machine parsing;
// console output is for interactive use.
func Init(level string, jsonOutput bool) {
	if jsonOutput {
		Logger = NewJSONLogger(os.Stderr, level)
	} else {
		Logger = NewConsoleLogger(os.Stderr, level)
	}
	initComponentLoggers()
}

// NewConsoleLogger builds a human-readable logger.
func NewConsoleLogger(out io.Writer, level string) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(writer).Level(parseLevel(level)).With().Timestamp().Logger()
}

// NewJSONLogger builds a structured JSON logger.
func NewJSONLogger(out io.Writer, level string) zerolog.Logger {
	return zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
}

func initComponentLoggers() {
	Mint = Logger.With().Str("component", "mint").Logger()
	Trade = Logger.With().Str("component", "trade").Logger()
	Ledger = Logger.With().Str("component", "ledger").Logger()
	Rest = Logger.With().Str("component", "rest").Logger()
	Auth = Logger.With().Str("component", "auth").Logger()
	Collection = Logger.With().Str("component", "collection").Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
