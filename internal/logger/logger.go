package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	// default logger instance
	defaultLogger *slog.Logger

	mu      sync.Mutex
	logFile *os.File
)

// initializes the logger based on environment
func init() {
	defaultLogger = slog.New(newHandler(os.Stderr))
}

func newHandler(w io.Writer) slog.Handler {
	if os.Getenv("BRAIN_ENV") == "production" {
		// production: JSON output at INFO and above
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	level := slog.LevelInfo
	if os.Getenv("BRAIN_ENV") == "development" {
		// request tracing only when asked for explicitly
		level = slog.LevelDebug
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// redirects the default logger to a file. the TUI owns the terminal while
// it runs, so anything written to stderr would corrupt the screen.
func SetOutput(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close() //nolint:errcheck
	}

	logFile = f
	defaultLogger = slog.New(newHandler(f))

	return nil
}

// replaces the default logger, mostly for tests
func SetDefault(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()

	defaultLogger = l
}

// closes the log file opened by SetOutput, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}

	err := logFile.Close()
	logFile = nil
	defaultLogger = slog.New(newHandler(os.Stderr))

	return err
}

// returns the default logger instance
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	return defaultLogger
}

// creates a logger with additional context fields
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// returns the logger stored in ctx, or the default one
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Default()
	}

	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}

	return Default()
}

// adds logger to context
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

type loggerKey struct{}

// logs a debug message
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// logs an info message
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// logs a warning message
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// logs an error message
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

// logs an error with context
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
}

// logs a fatal error and exits
func Fatal(msg string, args ...any) {
	Default().Error(msg, args...)
	os.Exit(1)
}

// logs a fatal error with error and exits
func FatalErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
	os.Exit(1)
}
