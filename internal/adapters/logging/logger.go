package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether ParseLevel understands s.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogCallback func(message string)

type lineHandler struct {
	level *slog.LevelVar
	out   io.Writer
	attrs []slog.Attr

	mu       *sync.RWMutex
	callback *LogCallback
}

func newLineHandler(level Level, out io.Writer) *lineHandler {
	levelVar := &slog.LevelVar{}
	levelVar.Set(toSlogLevel(level))
	var cb LogCallback
	return &lineHandler{
		level:    levelVar,
		out:      out,
		mu:       &sync.RWMutex{},
		callback: &cb,
	}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(r.Level.String()), r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	message := b.String()

	h.mu.RLock()
	cb := *h.callback
	h.mu.RUnlock()

	if cb != nil {
		cb(message)
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, message)
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *lineHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *lineHandler) setCallback(cb LogCallback) {
	h.mu.Lock()
	*h.callback = cb
	h.mu.Unlock()
}

func (h *lineHandler) setLevel(level Level) {
	h.level.Set(toSlogLevel(level))
}

type Logger struct {
	slogger *slog.Logger
	handler *lineHandler
}

func New(level Level) *Logger {
	return NewWithWriter(level, os.Stderr)
}

func NewWithWriter(level Level, out io.Writer) *Logger {
	handler := newLineHandler(level, out)
	return &Logger{
		slogger: slog.New(handler),
		handler: handler,
	}
}

func NewFromString(levelStr string) *Logger {
	return New(ParseLevel(levelStr))
}

// With returns a logger that appends key=value to every line. The level and
// callback stay shared with the parent.
func (l *Logger) With(key string, value any) *Logger {
	child := l.slogger.With(key, value)
	return &Logger{
		slogger: child,
		handler: l.handler,
	}
}

func (l *Logger) SetLevel(level Level) {
	l.handler.setLevel(level)
}

// SetCallback redirects output away from the writer, mainly for tests.
func (l *Logger) SetCallback(cb LogCallback) {
	l.handler.setCallback(cb)
}

func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.slogger.DebugContext(ctx, fmt.Sprintf(format, args...))
}

// Infof logs an info message.
func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.slogger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(ctx context.Context, format string, args ...any) {
	l.slogger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.slogger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}
