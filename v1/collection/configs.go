package collection

import (
	"github.com/Aleph-Alpha/agentmem/v1/embedding"
	"github.com/Aleph-Alpha/agentmem/v1/observability"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// Config describes one collection. It is fixed at construction: a
// collection has exactly one dimension and one schema for its lifetime,
// and changing either requires recreating the collection.
type Config struct {
	// Name identifies the collection and its backing table.
	Name string `yaml:"name"`

	// VectorDimension is the fixed vector length. May be omitted when an
	// Embedder is set (the embedder's dimension is used); if both are
	// given they must agree.
	VectorDimension int `yaml:"vector_dimension"`

	// Embedder optionally enables derived vectors: entries written
	// without one are embedded from the embedder's source field, and
	// text queries become possible.
	Embedder embedding.Embedder `yaml:"-"`

	// BaseSchema is the declared record shape; nil means schema.Base().
	// It must be a valid extension of the canonical memory-entry shape.
	BaseSchema []schema.Field `yaml:"-"`

	// UpdateLastAccessedOnQuery enables access-time bookkeeping: every
	// record returned by Query or GetByID has its
	// timestamp_last_accessed bumped as a best-effort side effect.
	UpdateLastAccessedOnQuery bool `yaml:"update_last_accessed_on_query"`

	// Recreate drops any existing backing table before creating a fresh
	// one.
	Recreate bool `yaml:"recreate"`

	// Logger is optional; defaults to a no-op logger.
	Logger Logger `yaml:"-"`

	// Observer optionally receives per-operation notifications.
	Observer observability.Observer `yaml:"-"`
}

// Logger is the minimal logging contract this package needs. The
// v1/logger package satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// nopLogger discards all output.
type nopLogger struct{}

func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}
