package embedding

import (
	"context"
	"math"
	"testing"
)

func TestHashEmbedderDeterminism(t *testing.T) {
	e := NewHashEmbedder(16)
	first, err := e.Generate(context.Background(), []string{"remember this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Generate(context.Background(), []string{"remember this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first[0] {
		if first[0][i] != second[0][i] {
			t.Fatalf("embeddings differ at %d: %v vs %v", i, first[0][i], second[0][i])
		}
	}
}

func TestHashEmbedderDistinctTexts(t *testing.T) {
	e := NewHashEmbedder(16)
	out, err := e.Generate(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(out))
	}
	same := true
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical embeddings")
	}
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	e := NewHashEmbedder(32)
	out, err := e.Generate(context.Background(), []string{"normalize me"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var norm float64
	for _, v := range out[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestHashEmbedderDimensions(t *testing.T) {
	e := NewHashEmbedder(8)
	if e.Dimensions() != 8 {
		t.Errorf("expected 8 dimensions, got %d", e.Dimensions())
	}
	out, err := e.Generate(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out[0]) != 8 {
		t.Errorf("expected 8 elements, got %d", len(out[0]))
	}
}

func TestHashEmbedderSourceField(t *testing.T) {
	e := NewHashEmbedder(4)
	if e.SourceField() != "content" {
		t.Errorf("expected default source field content, got %q", e.SourceField())
	}
	e = e.WithSourceField("summary")
	if e.SourceField() != "summary" {
		t.Errorf("expected source field summary, got %q", e.SourceField())
	}
}

func TestHashEmbedderInvalidDimension(t *testing.T) {
	e := &HashEmbedder{dimensions: 0}
	if _, err := e.Generate(context.Background(), []string{"x"}); err == nil {
		t.Error("expected error for non-positive dimension")
	}
}
