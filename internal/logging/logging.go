// Package logging builds the structured loggers used by both commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iliyamo/movie-catalog-browser/internal/config"
)

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New returns a JSON logger writing to w, tagged with the app name.
func New(w io.Writer, level slog.Level, app string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", app))
}

// NewFile returns a logger writing to the rotating file from c, so log
// output never interleaves with the console UI. Every record carries a
// per-process session id. The returned closer flushes the file.
func NewFile(c config.LogConfig, app string) (*slog.Logger, io.Closer, error) {
	if dir := filepath.Dir(c.File); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	w := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		Compress:   true,
	}
	log := New(w, ParseLevel(c.Level), app).With(slog.String("session", uuid.NewString()))
	return log, w, nil
}
