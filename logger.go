package hnswkit

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with index-specific helpers so every operation
// logs the same field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger on handler. A nil handler logs text at info
// level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger writing JSON records at or above level to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return newStderrLogger(level, true)
}

// NewTextLogger creates a Logger writing human-readable records at or above
// level to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return newStderrLogger(level, false)
}

func newStderrLogger(level slog.Level, json bool) *Logger {
	var (
		w    io.Writer = os.Stderr
		opts           = &slog.HandlerOptions{Level: level}
	)

	if json {
		return NewLogger(slog.NewJSONHandler(w, opts))
	}

	return NewLogger(slog.NewTextHandler(w, opts))
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithIndex tags every record with the index handle ID.
func (l *Logger) WithIndex(id string) *Logger {
	return &Logger{Logger: l.Logger.With("index", id)}
}

// result logs a completed operation: failures at error level with the status
// code, successes at okLevel.
func (l *Logger) result(err error, okLevel slog.Level, op string, attrs ...any) {
	if err != nil {
		l.Error(op+" failed", append(attrs, "code", CodeOf(err).String(), "error", err)...)
		return
	}

	l.Log(context.Background(), okLevel, op+" completed", attrs...)
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(id, dimension int, err error) {
	l.result(err, slog.LevelDebug, "insert", "id", id, "dimension", dimension)
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(k, resultsFound int, filtered bool, err error) {
	if err != nil {
		l.result(err, slog.LevelDebug, "search", "k", k, "filtered", filtered)
		return
	}

	l.result(nil, slog.LevelDebug, "search", "k", k, "filtered", filtered, "results", resultsFound)
}

// LogDelete logs a mark or unmark operation.
func (l *Logger) LogDelete(id int, deleted bool, err error) {
	l.result(err, slog.LevelDebug, "delete", "id", id, "deleted", deleted)
}

// LogResize logs a resize operation.
func (l *Logger) LogResize(capacity int, err error) {
	l.result(err, slog.LevelInfo, "resize", "capacity", capacity)
}

// LogSave logs a save operation.
func (l *Logger) LogSave(path string, entries int, err error) {
	l.result(err, slog.LevelInfo, "save", "path", path, "metadata_entries", entries)
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(path string, count int, err error) {
	l.result(err, slog.LevelInfo, "load", "path", path, "count", count)
}
