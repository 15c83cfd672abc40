package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/taskdeck/taskdeck-core/internal/infrastructure/config"
)

// serviceName is stamped on every log record.
const serviceName = "taskdeck"

// Logger embeds *slog.Logger so call sites use the slog API directly.
// Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a logger from the logging config section. Unrecognised
// values fall back to json on stdout at info level, so a bad config
// still produces readable output rather than none.
func New(cfg config.LoggingConfig, version string) *Logger {
	handler := newHandler(cfg, writerFor(cfg.Output)).WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// With returns a child logger carrying extra default attributes.
//
//	apiLog := log.With("component", "api")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default returns a json/stdout/info logger for use before the config
// file has been read.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}

func writerFor(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

func newHandler(cfg config.LoggingConfig, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: levelFor(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// levelFor maps a config string to a slog level, defaulting to info.
func levelFor(level string) slog.Level {
	switch strings.ToLower(level) {
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
