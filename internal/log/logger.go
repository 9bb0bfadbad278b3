// Package log wraps slog with a component tag and shared field names.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger tagged with the component that owns it.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}
}

// ParseLevel maps debug|info|warn|error onto a slog level; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.Level})
	}
	return tagged(slog.New(handler), config.Component)
}

func tagged(base *slog.Logger, component string) *Logger {
	l := base
	if component != "" {
		l = base.With(FieldComponent, component)
	}
	return &Logger{Logger: l, base: base, component: component}
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	return tagged(l.base.With(args...), l.component)
}

// WithComponent returns a logger for another component that keeps every
// attribute except the old component tag.
func (l *Logger) WithComponent(component string) *Logger {
	return tagged(l.base, component)
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}
