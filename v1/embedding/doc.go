// Package embedding defines the embedding-function collaborator contract
// and ships a deterministic local implementation.
//
// An Embedder declares its output dimension, the record field it reads
// text from, and a batch Generate method. Collections configured with an
// Embedder accept entries without an explicit vector: the storage engine
// embeds the source field at write time, and text queries are embedded at
// search time. Collections without one require explicit vectors on every
// write.
package embedding
