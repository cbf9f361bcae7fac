package engine

import (
	"context"

	"github.com/Aleph-Alpha/agentmem/v1/embedding"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// Row is one record as exchanged with the storage engine: a flat mapping
// from field name to value.
type Row = map[string]interface{}

// DB is the connection-level contract of the external storage engine.
// agentmem calls through this narrow interface and never reimplements
// indexing or storage; see the v1/sqlite package for the bundled
// embedded implementation.
type DB interface {
	// TableNames lists the tables (collections) the engine currently holds.
	TableNames(ctx context.Context) ([]string, error)

	// CreateTable creates a table with the given synthesized schema.
	// A non-nil embedding config enables write-time vector generation for
	// rows inserted without one.
	CreateTable(ctx context.Context, name string, sch *schema.Schema, embed *EmbeddingConfig) (Table, error)

	// OpenTable opens an existing table.
	OpenTable(ctx context.Context, name string) (Table, error)

	// DropTable removes a table and its rows.
	DropTable(ctx context.Context, name string) error

	// Close releases the connection.
	Close() error
}

// Table is the per-collection contract of the storage engine. Predicates
// passed as `where` are textual expressions in the engine's query
// language, produced exclusively by the v1/filter compiler; an empty
// string means "no restriction".
type Table interface {
	// Add inserts rows. Rows without a vector are embedded from the
	// configured source column when the table carries an embedding config.
	Add(ctx context.Context, rows []Row) error

	// Update assigns the given values to every row matching the predicate.
	Update(ctx context.Context, values Row, where string) error

	// Delete removes every row matching the predicate.
	Delete(ctx context.Context, where string) error

	// CountRows counts rows, optionally restricted by a predicate.
	CountRows(ctx context.Context, where string) (int, error)

	// Search runs a similarity search (or, without a vector and text, a
	// plain filtered scan) and returns matching rows nearest-first.
	Search(ctx context.Context, req SearchRequest) ([]Row, error)
}

// SearchRequest describes one search call against a table.
type SearchRequest struct {
	// Vector is the query embedding. May be nil for text queries (the
	// engine embeds Text) or for pure metadata scans.
	Vector []float32

	// Text is a text query, embedded by the engine's embedding
	// integration. Ignored when Vector is set.
	Text string

	// Limit caps the number of returned rows. Zero means no cap.
	Limit int

	// Where is an optional textual predicate.
	Where string

	// Columns is an optional projection; nil returns all columns.
	Columns []string
}

// EmbeddingConfig wires an embedding function into a table at creation
// time. The engine owns when to invoke it: at insert for rows missing
// the vector column, and at search for text queries.
type EmbeddingConfig struct {
	// SourceColumn is the text column embeddings are generated from.
	SourceColumn string

	// VectorColumn is the column receiving generated vectors.
	VectorColumn string

	// Function performs the embedding.
	Function embedding.Embedder
}
