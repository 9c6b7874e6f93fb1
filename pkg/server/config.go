package server

import (
	"log/slog"
	"os"
	"time"
)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// ReadTimeout bounds a single WebSocket read.
	ReadTimeout time.Duration

	// WriteTimeout bounds a single WebSocket write.
	WriteTimeout time.Duration

	// HeartbeatInterval is how often the server pings the client.
	HeartbeatInterval time.Duration

	// MaxEventQueue is the per-session event buffer size. Events past the
	// buffer are dropped with an error frame.
	MaxEventQueue int

	// Logger receives structured server logs.
	Logger *slog.Logger

	// TracerName names the OpenTelemetry tracer for event spans.
	TracerName string
}

// Option configures a Server.
type Option func(*Config)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(c *Config) {
		c.Addr = addr
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithHeartbeatInterval sets the ping cadence.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Config) {
		c.HeartbeatInterval = d
	}
}

// WithTimeouts sets the read and write deadlines.
func WithTimeouts(read, write time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = read
		c.WriteTimeout = write
	}
}

// WithMaxEventQueue sets the per-session event buffer size.
func WithMaxEventQueue(n int) Option {
	return func(c *Config) {
		c.MaxEventQueue = n
	}
}

// WithTracerName sets the tracer name for event spans.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

func defaultConfig() Config {
	return Config{
		Addr:              ":8080",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxEventQueue:     256,
		Logger:            slog.New(slog.NewTextHandler(os.Stderr, nil)),
		TracerName:        "arbor",
	}
}
