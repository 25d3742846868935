package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
)

// KeyError is the attribute key used for errors in log records.
const KeyError = slogutil.KeyError

type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// New builds the process logger writing JSON records to w. level is one of
// slog's textual levels ("debug", "info", "warn", "error"); an unknown value
// falls back to info.
func New(w io.Writer, level string) *SlogLogger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return NewSlogLogger(slogutil.New(&slogutil.Config{
		Output:       w,
		Format:       slogutil.FormatJSON,
		Level:        lvl,
		AddTimestamp: true,
	}))
}

// NewDiscard returns a logger that drops everything.
func NewDiscard() *SlogLogger {
	return NewSlogLogger(slogutil.NewDiscardLogger())
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
