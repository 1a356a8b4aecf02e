// Package logger installs the process-wide slog handler.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New builds a logger writing colored text to console. When file is set,
// records are also appended to it as JSON. The returned closer releases
// the file and is never nil.
func New(console io.Writer, level, file string) (*slog.Logger, io.Closer, error) {
	logLevel := ParseLevel(level)

	handler := tint.NewHandler(console, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
	})
	if file == "" {
		return slog.New(handler), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: logLevel})

	return slog.New(slogmulti.Fanout(handler, fileHandler)), f, nil
}

// Setup installs a logger on stderr as the slog default.
func Setup(level, file string) (io.Closer, error) {
	logger, closer, err := New(os.Stderr, level, file)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
