package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// SlogLogger adapts a *slog.Logger. The component goes into its own attribute.
type SlogLogger struct{ l *slog.Logger }

// NewSlogLogger writes text records at or above level to w.
func NewSlogLogger(w io.Writer, level slog.Level) SlogLogger {
	return SlogLogger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

func (s SlogLogger) Infof(component string, format string, args ...interface{}) {
	s.log(slog.LevelInfo, component, format, args...)
}

func (s SlogLogger) Errorf(component string, format string, args ...interface{}) {
	s.log(slog.LevelError, component, format, args...)
}

func (s SlogLogger) log(level slog.Level, component, format string, args ...interface{}) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...), slog.String("component", component))
}

// ParseLevel accepts debug, info, warn or error. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
