package embedding

import "context"

// Embedder is the external embedding-function collaborator. It maps text
// to fixed-length vectors and declares its output dimension and the
// record field it reads text from.
//
// agentmem never runs model inference itself: the storage engine invokes
// Generate at write time for entries inserted without an explicit vector,
// and at query time for text queries.
type Embedder interface {
	// Dimensions returns the fixed length of generated vectors.
	Dimensions() int

	// SourceField returns the name of the record field the embedder reads
	// its input text from (typically "content").
	SourceField() string

	// Generate converts a batch of texts into one vector per text, in
	// input order.
	Generate(ctx context.Context, texts []string) ([][]float32, error)
}
