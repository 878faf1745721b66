package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"stock-trend/src/models"

	"github.com/rs/zerolog"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name string
	base zerolog.Logger
	zl   zerolog.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance. A nil config logs INFO and above to stdout in console format.
func NewLogger(config *models.MConfig, name string) *Logger {
	level, format := "INFO", "console"
	if config != nil {
		if config.LogLevel != "" {
			level = config.LogLevel
		}
		if config.LogFormat != "" {
			format = config.LogFormat
		}
	}

	var out io.Writer = os.Stdout
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewLoggerWithWriter(out, level, name)
}

// -----------------------------------------------------------------------------

// NewLoggerWithWriter builds a logger writing JSON lines (or whatever w formats) to w.
func NewLoggerWithWriter(w io.Writer, level string, name string) *Logger {
	base := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	return &Logger{name: name, base: base, zl: base.With().Str("component", name).Logger()}
}

// -----------------------------------------------------------------------------

// Named returns a logger for a sub component sharing the same sink and level.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, base: l.base, zl: l.base.With().Str("component", name).Logger()}
}

// -----------------------------------------------------------------------------

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARNING", "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.zl.WithLevel(zerolog.FatalLevel).Msg(fmt.Sprintf(format, args...))
	os.Exit(1)
}
