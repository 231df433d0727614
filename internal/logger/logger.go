// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level  string
	Format string // "console", "text", "json"
	Output io.Writer

	// File, when set, receives a copy of every line and is rotated by size.
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

var (
	once sync.Once
	lg   *slog.Logger
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from cfg. The closer releases the log file, if any.
func New(cfg Config) (*slog.Logger, io.Closer) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		out = io.MultiWriter(out, rotating)
		closer = rotating
	}
	return slog.New(newHandler(out, cfg.Format, parseLevel(cfg.Level))), closer
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	switch format {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return &consoleHandler{out: &lockedWriter{w: w}, level: level}
	}
}

// Init installs the logger as slog's default. Only the first call has an
// effect; later calls return a no-op closer.
func Init(cfg Config) io.Closer {
	var closer io.Closer = nopCloser{}
	once.Do(func() {
		lg, closer = New(cfg)
		slog.SetDefault(lg)
	})
	return closer
}

func L() *slog.Logger {
	if lg == nil {
		Init(Config{Level: "debug", Format: "console"})
	}
	return lg
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

func parseLevel(s string) slog.Level {
	l, _ := ParseLevel(s)
	return l
}

// ValidFormat reports whether f names a handler New can build. Empty means console.
func ValidFormat(f string) bool {
	switch f {
	case "", "console", "text", "json":
		return true
	}
	return false
}
