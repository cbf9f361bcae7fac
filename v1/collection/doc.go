// Package collection manages one named set of memory entries: a schema,
// a vector dimension and an engine table, with typed operations for
// adding, querying, fetching, deleting, counting and pruning entries.
//
// Entries pass through a record preparer before insertion: ids and
// creation timestamps are generated when absent, declared defaults are
// applied, vectors are dimension-checked or derived through the
// configured embedding function, and the result is validated against
// the collection schema. Reads optionally maintain access times for
// recency-based pruning.
package collection
