package store

import (
	"github.com/Aleph-Alpha/agentmem/v1/engine"
	"github.com/Aleph-Alpha/agentmem/v1/observability"
)

// Config describes a store: one engine connection shared by many
// collections.
type Config struct {
	// Path is the store directory on disk, used by the bundled embedded
	// engine. Ignored when DB is set. The directory is created on demand.
	Path string `yaml:"path" env:"AGENTMEM_STORE_PATH"`

	// DB optionally supplies an already-open engine connection. The store
	// then does not close it.
	DB engine.DB `yaml:"-"`

	// Logger is optional; defaults to a no-op logger and is inherited by
	// collections created through the store.
	Logger Logger `yaml:"-"`

	// Observer is optional and is inherited by collections created
	// through the store.
	Observer observability.Observer `yaml:"-"`
}

// DefaultConfig returns a store config with the conventional on-disk
// location.
func DefaultConfig() Config {
	return Config{
		Path: "./agentmem_store",
	}
}

// WithPath sets the store directory.
func (c Config) WithPath(path string) Config {
	c.Path = path
	return c
}

// WithDB sets a caller-owned engine connection.
func (c Config) WithDB(db engine.DB) Config {
	c.DB = db
	return c
}

// WithLogger sets the logger.
func (c Config) WithLogger(l Logger) Config {
	c.Logger = l
	return c
}

// WithObserver sets the operation observer.
func (c Config) WithObserver(o observability.Observer) Config {
	c.Observer = o
	return c
}

// Logger is the minimal logging contract this package needs. The
// v1/logger package satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}
