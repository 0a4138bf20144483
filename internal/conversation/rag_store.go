package conversation

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/asafo-labs/insurance-ai-platform/pkg/logging"
)

// Embedder turns text into vectors for similarity retrieval.
type Embedder interface {
	Embed(ctx context.Context, modelID string, texts []string) ([][]float32, error)
}

// KnowledgeRetriever exposes the query capability the engine needs for
// generic product questions.
type KnowledgeRetriever interface {
	Query(ctx context.Context, query string, topK int) ([]string, error)
}

// KnowledgeIngestor describes how product knowledge is loaded.
type KnowledgeIngestor interface {
	AddDocuments(ctx context.Context, contents []string) error
}

// MemoryRAGStore keeps product-knowledge embeddings in memory and supports
// simple cosine retrieval.
type MemoryRAGStore struct {
	embedder Embedder
	model    string
	logger   *logging.Logger

	mu        sync.RWMutex
	documents []ragDocument
}

type ragDocument struct {
	content   string
	embedding []float32
}

// NewMemoryRAGStore creates an in-memory store.
func NewMemoryRAGStore(embedder Embedder, model string, logger *logging.Logger) *MemoryRAGStore {
	if embedder == nil {
		panic("conversation: embedder cannot be nil")
	}
	if model == "" {
		model = "amazon.titan-embed-text-v2:0"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryRAGStore{
		embedder: embedder,
		model:    model,
		logger:   logger,
	}
}

// AddDocuments embeds and stores the provided contents.
func (s *MemoryRAGStore) AddDocuments(ctx context.Context, contents []string) error {
	if len(contents) == 0 {
		return nil
	}
	vectors, err := s.embedder.Embed(ctx, s.model, contents)
	if err != nil {
		return err
	}
	if len(vectors) != len(contents) {
		return errors.New("conversation: embedding response size mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, vec := range vectors {
		s.documents = append(s.documents, ragDocument{
			content:   contents[i],
			embedding: vec,
		})
	}
	return nil
}

// Query returns the topK most similar documents for the query text.
func (s *MemoryRAGStore) Query(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 3
	}
	vectors, err := s.embedder.Embed(ctx, s.model, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	queryVec := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.documents) == 0 {
		return nil, nil
	}

	type scored struct {
		score   float64
		content string
	}
	results := make([]scored, 0, len(s.documents))
	for _, doc := range s.documents {
		results = append(results, scored{
			score:   cosineSimilarity(queryVec, doc.embedding),
			content: doc.content,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	limit := topK
	if len(results) < limit {
		limit = len(results)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = results[i].content
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
