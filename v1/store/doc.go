// Package store manages a set of collections sharing one engine
// connection: creation and cached retrieval by name, listing, deletion
// and connection lifecycle. The bundled embedded engine is used when no
// connection is supplied.
package store
