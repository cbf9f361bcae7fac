// Package engine defines the boundary between agentmem and the external
// embedded storage engine.
//
// Everything below this interface - the vector index, similarity search
// execution, the storage engine and its persistence format - is owned by
// the engine implementation and treated as opaque. agentmem only opens,
// creates and drops tables, inserts and deletes rows, and runs searches
// with a textual predicate, a limit and an optional projection.
//
// The bundled implementation lives in v1/sqlite. Alternative engines can
// be plugged in by implementing DB and Table, provided their query
// language accepts the SQL-dialect predicates produced by v1/filter.
package engine
