// Package logger provides prefixed, colored structured loggers.
package logger

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"sync"
)

const colorReset = "\033[0m"

var ErrNilWriter = errors.New("logger: nil writer")

// Logger writes leveled messages tagged with a component prefix.
type Logger struct {
	log *slog.Logger
}

// New creates a Logger writing to w. Every line is wrapped in color when it
// is not empty.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	if color != "" {
		w = &colorWriter{w: w, color: []byte(color)}
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{log: slog.New(handler).With(slog.String("component", prefix))}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.log.Info(msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.log.Warn(msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.log.Error(msg)
}

// With returns a Logger that adds the given key/value pairs to every message.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...)}
}

// colorWriter colors each record. The slog handlers emit one record per Write.
type colorWriter struct {
	mu    sync.Mutex
	w     io.Writer
	color []byte
}

func (c *colorWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := bytes.TrimSuffix(p, []byte("\n"))
	buf := make([]byte, 0, len(c.color)+len(p)+len(colorReset)+1)
	buf = append(buf, c.color...)
	buf = append(buf, line...)
	buf = append(buf, colorReset...)
	buf = append(buf, '\n')
	if _, err := c.w.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
