package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/Aleph-Alpha/agentmem/v1/errs"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// HashEmbedder is a deterministic, dependency-free embedder for local
// development and tests. It seeds a linear congruential generator with
// the FNV hash of the input text and normalizes the result to a unit
// vector, so identical texts always produce identical embeddings.
//
// It carries no semantic signal; production deployments plug in a real
// model-backed Embedder instead.
type HashEmbedder struct {
	dimensions  int
	sourceField string
}

// NewHashEmbedder creates a HashEmbedder with the given output dimension.
// The source field defaults to "content".
func NewHashEmbedder(dimensions int) *HashEmbedder {
	return &HashEmbedder{
		dimensions:  dimensions,
		sourceField: schema.FieldContent,
	}
}

// WithSourceField overrides the record field the embedder reads from.
func (e *HashEmbedder) WithSourceField(field string) *HashEmbedder {
	e.sourceField = field
	return e
}

// Dimensions returns the fixed embedding length.
func (e *HashEmbedder) Dimensions() int { return e.dimensions }

// SourceField returns the record field the embedder reads text from.
func (e *HashEmbedder) SourceField() string { return e.sourceField }

// Generate produces one deterministic unit vector per input text.
func (e *HashEmbedder) Generate(ctx context.Context, texts []string) ([][]float32, error) {
	if e.dimensions <= 0 {
		return nil, errs.Embeddingf("hash embedder dimension must be positive, got %d", e.dimensions)
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *HashEmbedder) embed(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(vec)
}

// normalize scales a vector to unit length.
func normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}
