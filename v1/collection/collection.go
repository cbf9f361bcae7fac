package collection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/agentmem/v1/embedding"
	"github.com/Aleph-Alpha/agentmem/v1/engine"
	"github.com/Aleph-Alpha/agentmem/v1/errs"
	"github.com/Aleph-Alpha/agentmem/v1/observability"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// Collection is one named set of memory entries sharing a schema and a
// vector dimension, backed by one engine table. A Collection is safe for
// concurrent use as long as the underlying engine is.
type Collection struct {
	name               string
	db                 engine.DB
	table              engine.Table
	schema             *schema.Schema
	embedder           embedding.Embedder
	updateLastAccessed bool
	logger             Logger
	observer           observability.Observer

	// Injected for tests.
	now   func() time.Time
	newID func() string
}

// New opens (or creates) the collection described by cfg on the given
// engine connection. The vector dimension is taken from the embedder
// when one is configured; an explicitly configured dimension must then
// agree with it.
func New(ctx context.Context, db engine.DB, cfg Config) (*Collection, error) {
	if db == nil {
		return nil, errs.Initializationf("collection %q: an engine connection must be provided", cfg.Name)
	}
	if cfg.Name == "" {
		return nil, errs.Initializationf("collection name must not be empty")
	}

	dimension := cfg.VectorDimension
	if cfg.Embedder != nil {
		embedderDim := cfg.Embedder.Dimensions()
		if dimension != 0 && dimension != embedderDim {
			return nil, errs.Initializationf(
				"collection %q: configured dimension %d conflicts with embedder dimension %d",
				cfg.Name, dimension, embedderDim)
		}
		dimension = embedderDim
	}
	if dimension <= 0 {
		return nil, errs.Initializationf(
			"collection %q: a vector dimension or an embedder must be provided", cfg.Name)
	}

	sch, err := schema.Synthesize(cfg.BaseSchema, dimension)
	if err != nil {
		return nil, err
	}

	c := &Collection{
		name:               cfg.Name,
		db:                 db,
		schema:             sch,
		embedder:           cfg.Embedder,
		updateLastAccessed: cfg.UpdateLastAccessedOnQuery,
		logger:             cfg.Logger,
		observer:           cfg.Observer,
		now:                time.Now,
		newID:              uuid.NewString,
	}
	if c.logger == nil {
		c.logger = nopLogger{}
	}

	if err := c.ensureTable(ctx, cfg.Recreate); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureTable drops (when recreating), creates or opens the backing
// table.
func (c *Collection) ensureTable(ctx context.Context, recreate bool) error {
	names, err := c.db.TableNames(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrInitialization, err,
			"collection %q: failed to list tables", c.name)
	}
	exists := false
	for _, n := range names {
		if n == c.name {
			exists = true
			break
		}
	}

	if recreate && exists {
		if err := c.db.DropTable(ctx, c.name); err != nil {
			return errs.Wrap(errs.ErrOperation, err,
				"collection %q: failed to drop table for recreation", c.name)
		}
		c.logger.Info("dropped existing collection table for recreation", nil,
			map[string]interface{}{"collection": c.name})
		exists = false
	}

	if exists {
		table, err := c.db.OpenTable(ctx, c.name)
		if err != nil {
			return errs.Wrap(errs.ErrInitialization, err,
				"collection %q: failed to open table", c.name)
		}
		c.table = table
		return nil
	}

	table, err := c.db.CreateTable(ctx, c.name, c.schema, c.embeddingConfig())
	if err != nil {
		return errs.Wrap(errs.ErrInitialization, err,
			"collection %q: failed to create table", c.name)
	}
	c.logger.Info("created collection table", nil, map[string]interface{}{
		"collection": c.name,
		"dimension":  c.schema.Dimension(),
	})
	c.table = table
	return nil
}

// embeddingConfig builds the engine-side embedding wiring, or nil when
// the collection has no embedder.
func (c *Collection) embeddingConfig() *engine.EmbeddingConfig {
	if c.embedder == nil {
		return nil
	}
	return &engine.EmbeddingConfig{
		SourceColumn: c.sourceField(),
		VectorColumn: schema.FieldVector,
		Function:     c.embedder,
	}
}

// sourceField is the text field vectors are derived from; defaults to
// the content field.
func (c *Collection) sourceField() string {
	if c.embedder == nil {
		return schema.FieldContent
	}
	if f := c.embedder.SourceField(); f != "" {
		return f
	}
	return schema.FieldContent
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Dimension returns the collection's fixed vector length.
func (c *Collection) Dimension() int { return c.schema.Dimension() }

// Schema returns the collection's synthesized schema.
func (c *Collection) Schema() *schema.Schema { return c.schema }
