package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelCritical sits above slog.LevelError and renders as "CRITICAL".
const LevelCritical = slog.Level(12)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error, critical).
	Level string
	// Format is "json" or "text".
	Format string
	// FilePath is the path to the log file. Empty means no file logging.
	FilePath string
	// MaxSizeBytes is the size in bytes before rotation (default: 10 MiB).
	MaxSizeBytes int64
	// MaxFiles is the maximum number of rotated files to keep (default: 3).
	MaxFiles int
	// Stderr is where console output goes. Nil means os.Stderr.
	Stderr io.Writer
}

// DefaultConfig returns sensible defaults: info level JSON to stderr.
func DefaultConfig() Config {
	return Config{
		Level:        "info",
		Format:       "json",
		MaxSizeBytes: 10 * 1024 * 1024,
		MaxFiles:     3,
	}
}

// Setup builds a logger and returns it with a cleanup function that
// flushes and closes the log file. Cleanup is never nil.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	console := cfg.Stderr
	if console == nil {
		console = os.Stderr
	}

	output := console
	cleanup := func() {}

	if cfg.FilePath != "" {
		maxFiles := cfg.MaxFiles
		if maxFiles <= 0 {
			maxFiles = 3
		}
		writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeBytes, maxFiles)
		if err != nil {
			return nil, nil, err
		}
		output = io.MultiWriter(writer, console)
		cleanup = func() {
			_ = writer.Sync()
			_ = writer.Close()
		}
	}

	return New(output, cfg.Level, cfg.Format), cleanup, nil
}

// New creates a logger writing to w with the given level and format.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: replaceLevel,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything. Used as the zero value
// by components constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: LevelCritical + 1}))
}

// Critical logs at LevelCritical.
func Critical(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	logger.Log(ctx, LevelCritical, msg, args...)
}

// replaceLevel renders LevelCritical by name instead of "ERROR+4".
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}
