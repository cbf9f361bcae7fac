// Package sqlite is the bundled embedded storage engine: an engine.DB
// implementation backed by a single SQLite database file per store
// directory, with one SQL table per collection.
//
// # Layout
//
// Each collection table is shaped after its synthesized schema: strings
// as TEXT, numbers as REAL/INTEGER, lists and maps as JSON TEXT, vectors
// as BLOBs of little-endian float32s. Optional fields inserted without a
// value are stored as NULL, which is what the prune predicates' IS NULL
// branches rely on. A meta table records each collection's schema so
// tables can be reopened in later processes.
//
// # Search
//
// Compiled filter predicates are passed through verbatim as SQL WHERE
// text. Similarity search fetches the candidate rows matching the
// predicate and scores them by exact cosine similarity in process,
// nearest first; there is no approximate-nearest-neighbor index. Text
// queries are embedded through the table's embedding config before
// scoring. A search with neither vector nor text degrades to a plain
// filtered scan, which is what point lookups and delete pre-counts use.
//
// Embedding functions are runtime objects and are not persisted: a table
// reopened in a fresh process has no embedding integration until it is
// re-registered through CreateTable.
package sqlite
