// Package logger provides a process-wide structured logging façade
// (SPEC_FULL §4.16), initialised once at program entry and never
// implicitly mutated afterward. Grounded on wingthing's slog-based
// logger (internal/logger/logger.go), which multiplexed to stdout plus
// an optional log file; adapted here to write to stderr instead of
// stdout, since stdout is reserved for the hook/CLI JSON protocol
// (spec §4.14).
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a configured *slog.Logger. Use New or Noop to construct one;
// there is no implicit default — callers that need one pass it
// explicitly, keeping logging dependency-injected rather than a hidden
// global.
type Logger struct {
	*slog.Logger
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a Logger writing to stderr, and additionally to logFile
// when non-empty. level is one of debug/info/warn/error; unrecognised
// values fall back to info.
func New(level string, logFile string) (*Logger, error) {
	var writers []io.Writer
	writers = append(writers, os.Stderr)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05"))
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}, nil
}

// Noop returns a Logger that discards everything, for call sites (tests,
// library callers) that don't want log output but still need a non-nil
// Logger to satisfy a dependency.
func Noop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a Logger with the given key/value attributes attached to
// every subsequent record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
