// Package logging configures slog: JSON to stdout, with ERROR+ records
// optionally mirrored into the system_logs table.
package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(env string) {
	slog.SetDefault(slog.New(StdoutHandler(env)))
}

// StdoutHandler logs at debug in development and info elsewhere.
func StdoutHandler(env string) slog.Handler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}
