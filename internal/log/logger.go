// Package log provides the structured logger shared by all packages.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for the global logger.
type Config struct {
	Level   string    // "debug", "info", ...; falls back to SESSIONCTL_LOG_LEVEL, then info
	Output  io.Writer // defaults to os.Stderr
	Service string    // attached to every entry
}

var (
	mu         sync.Mutex
	configured bool
	base       = zerolog.Nop()
)

// Configure initialises the global logger. Only the first call has effect.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if configured {
		return
	}
	configured = true

	level := zerolog.InfoLevel
	raw := cfg.Level
	if raw == "" {
		raw = os.Getenv("SESSIONCTL_LOG_LEVEL")
	}
	if raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	service := cfg.Service
	if service == "" {
		service = "sessionctl"
	}

	base = zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Base returns the configured logger. Before Configure it discards everything.
func Base() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// WithComponent returns a child logger annotated with the component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
