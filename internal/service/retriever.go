package service

import (
	"context"
	"sort"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/telemetry"
)

// EmbeddingClient produces query embeddings.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkSearcher is the vector-search surface of the chunk repository.
type ChunkSearcher interface {
	Search(ctx context.Context, embedding []float32, limit int) ([]domain.Evidence, error)
}

// EvidenceRetriever embeds a question and searches the document corpus
// for supporting evidence.
type EvidenceRetriever struct {
	embedder EmbeddingClient
	chunks   ChunkSearcher
	limit    int
}

func NewEvidenceRetriever(embedder EmbeddingClient, chunks ChunkSearcher, limit int) *EvidenceRetriever {
	if limit <= 0 {
		limit = 5
	}
	return &EvidenceRetriever{embedder: embedder, chunks: chunks, limit: limit}
}

// Retrieve returns evidence sorted descending by similarity. An empty
// result is not an error; the caller escalates on no evidence.
func (r *EvidenceRetriever) Retrieve(ctx context.Context, question string) ([]domain.Evidence, error) {
	ctx, span := telemetry.StartSpan(ctx, "EvidenceRetriever.Retrieve", telemetry.SpanAttributes{
		Operation: "vector_search",
	})
	defer span.End()

	embedding, err := r.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeExternalService, "embedding service unavailable", err)
	}

	evidence, err := r.chunks.Search(ctx, embedding, r.limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	sort.SliceStable(evidence, func(i, j int) bool {
		return evidence[i].SimilarityScore > evidence[j].SimilarityScore
	})

	return evidence, nil
}
