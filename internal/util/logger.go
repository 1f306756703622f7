package util

import (
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger = zerolog.Logger

// LogLevel represents available log levels.
type LogLevel = int

// Log levels.
const (
	TraceLevel LogLevel = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

func zerologLevel(lvl LogLevel) zerolog.Level {
	switch lvl {
	case TraceLevel:
		return zerolog.TraceLevel
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// InitializeLogger sets up the global logger at the given level. The core
// mvfs and codec packages do not log; the loggers in use belong to the
// demo command, the manifest loader and the mount bridge.
func InitializeLogger(level LogLevel) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerologLevel(level))

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	ctx := zerolog.New(output).With().Timestamp()
	if level == TraceLevel {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
	log.Info().Msg("logger initialized")
}

// GetLogger returns a logger tagged with a component name, e.g. "main",
// "manifest.Apply" or "mount.Lookup".
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// zerologWriter adapts a zerolog.Logger to io.Writer, letting stdlog-only
// library seams (go-fuse's debug logger) route through it.
type zerologWriter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (w zerologWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if idx := strings.LastIndex(msg, ": "); idx != -1 && idx < len(msg)-2 {
		msg = msg[idx+2:]
	}
	w.logger.WithLevel(w.level).Msg(msg)
	return len(p), nil
}

// NewLogLogger returns a stdlog.Logger that routes every line through
// zerolog under component, at lvl.
func NewLogLogger(component string, lvl LogLevel) *stdlog.Logger {
	logger := log.With().Str("component", component).Logger()
	writer := zerologWriter{logger: logger, level: zerologLevel(lvl)}
	return stdlog.New(writer, "", 0)
}
