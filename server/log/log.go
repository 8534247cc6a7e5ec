// Package log wraps log/slog behind the small printf-style interface the
// teacher's session handlers call through (s.log.Debugf(...), s.log.
// Errorf(...)). The teacher's current go.mod snapshot no longer vendors a
// third-party logger the way its older fork did, so this follows that same
// current choice rather than reintroducing one (see DESIGN.md).
package log

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is the call shape every package in this module logs through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by an slog.Logger writing to os.Stderr in
// slog's default text handler form.
func New() Logger {
	return &slogLogger{l: slog.New(slog.NewTextHandler(os.Stderr, nil))}
}

// Wrap adapts an existing *slog.Logger.
func Wrap(l *slog.Logger) Logger { return &slogLogger{l: l} }

func (s *slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Warnf(format string, args ...any)  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s *slogLogger) Errorf(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }
