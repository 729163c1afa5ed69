// Package logging builds the zerolog loggers used across the framework.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/moss-engine/moss/framework/config"
)

// New returns a logger for component writing to w. All entries carry
// a timestamp and the component field. The console format (or APP_ENV=dev)
// switches to human readable output; app.debug forces the debug level.
func New(w io.Writer, cfg *config.Config, component string) zerolog.Logger {
	if cfg.Log.Format == "console" || cfg.App.Env == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).
		Level(Level(cfg)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// Level returns the configured level, falling back to info.
func Level(cfg *config.Config) zerolog.Level {
	if cfg.App.Debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
