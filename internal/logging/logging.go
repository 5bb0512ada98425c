// Package logging provides the process-wide structured logger.
package logging

import (
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the minimal logging surface the rest of the client depends on,
// so the implementation can be swapped in tests.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Log is the global logger instance. Usable before Init with info level.
var Log Logger = New("info")

// Init replaces the global logger with one at the given level.
func Init(level string) {
	Log = New(level)
}

// New creates a gookit/slog-backed logger at the given level. Unknown
// levels fall back to info.
func New(level string) Logger {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "" {
		name = "info"
	}
	logLevel := slog.LevelByName(name)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewTextFormatter()
	formatter.TimeFormat = "2006-01-02T15:04:05"
	h.SetFormatter(formatter)

	l := slog.NewWithHandlers(h)
	return l
}
