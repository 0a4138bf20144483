package conversation

import (
	"context"
	"testing"
)

// fakeEmbedder maps known phrases onto fixed vectors so similarity ordering
// is deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f fakeEmbedder) Embed(ctx context.Context, modelID string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func TestMemoryRAGStoreRetrievesNearest(t *testing.T) {
	embedder := fakeEmbedder{vectors: map[string][]float32{
		"Comprehensive auto cover includes theft and fire.": {1, 0, 0},
		"Health plans cover hospital admissions.":           {0, 1, 0},
		"what does car insurance include":                   {0.9, 0.1, 0},
	}}
	store := NewMemoryRAGStore(embedder, "", nil)
	ctx := context.Background()

	err := store.AddDocuments(ctx, []string{
		"Comprehensive auto cover includes theft and fire.",
		"Health plans cover hospital admissions.",
	})
	if err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	results, err := store.Query(ctx, "what does car insurance include", 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0] != "Comprehensive auto cover includes theft and fire." {
		t.Errorf("nearest = %q", results[0])
	}
}

func TestMemoryRAGStoreEmptyStore(t *testing.T) {
	store := NewMemoryRAGStore(fakeEmbedder{}, "", nil)

	results, err := store.Query(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosineSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
