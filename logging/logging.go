package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kastelo.dev/iak/config"
)

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewHandler(w io.Writer, cfg config.Log) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Setup returns a logger writing to stderr and to a log file named after
// the command and the current time, in cfg.Dir. The returned file must be
// closed by the caller.
func Setup(cfg config.Log, command string, now time.Time) (*slog.Logger, *os.File, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("log directory: %w", err)
	}
	name := filepath.Join(dir, FileName(command, now))
	fd, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}

	logger := slog.New(NewHandler(io.MultiWriter(os.Stderr, fd), cfg))
	return logger.With("command", command), fd, nil
}

func FileName(command string, now time.Time) string {
	return fmt.Sprintf("%s_%s.log", command, now.Format("20060102-150405"))
}
