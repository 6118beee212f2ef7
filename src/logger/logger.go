package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"market-dashboard/src/models"

	"github.com/rs/zerolog"
)

// -----------------------------------------------------------------------------

// Logger is a named, printf-style facade over zerolog.
type Logger struct {
	name string
	base zerolog.Logger
	zl   zerolog.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a Logger writing to stdout. A nil config logs at info level
// in JSON format.
func NewLogger(cfg *models.MConfig, name string) *Logger {
	level, pretty := "info", false
	if cfg != nil {
		level, pretty = cfg.LogLevel, cfg.LogPretty
	}

	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	return NewWithWriter(out, level, name)
}

// -----------------------------------------------------------------------------

// NewWithWriter creates a Logger writing JSON lines to w.
func NewWithWriter(w io.Writer, level string, name string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	base := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
	return &Logger{name: name, base: base, zl: base.With().Str("component", name).Logger()}
}

// -----------------------------------------------------------------------------

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{name: "nop", base: zerolog.Nop(), zl: zerolog.Nop()}
}

// -----------------------------------------------------------------------------

// ParseLevel maps config strings (DEBUG, info, warning...) to zerolog levels.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "critical", "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Named derives a child logger sharing the same output and level.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, base: l.base, zl: l.base.With().Str("component", name).Logger()}
}

// -----------------------------------------------------------------------------

// Name returns the component name.
func (l *Logger) Name() string {
	return l.name
}

// -----------------------------------------------------------------------------

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// -----------------------------------------------------------------------------

// Debug logs debugging messages
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
