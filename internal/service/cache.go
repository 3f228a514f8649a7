package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/telemetry"
)

const (
	// CacheBoost is added to a verified answer's stored confidence on
	// reuse; the sum is clamped to the global ceiling.
	CacheBoost = 0.15

	// semanticMatchThreshold is the similarity a nearest-neighbor hit
	// must exceed to substitute for an exact fingerprint match. Stricter
	// than retrieval because a wrong reuse skips human review.
	semanticMatchThreshold = 0.85

	// promotedConfidence is the stored confidence for a freshly promoted
	// answer.
	promotedConfidence = 0.95
)

// VerifiedAnswerStore is the persistence surface of the cache.
type VerifiedAnswerStore interface {
	GetByFingerprint(ctx context.Context, fingerprint string) (*domain.VerifiedAnswer, error)
	SearchNearest(ctx context.Context, embedding []float32) (*domain.VerifiedAnswer, float64, error)
	Upsert(ctx context.Context, rec *domain.VerifiedAnswer) error
}

// AnswerCache looks up and promotes human-verified answers. Lookup tries
// the exact fingerprint first, then a semantic nearest-neighbor match.
type AnswerCache struct {
	store      VerifiedAnswerStore
	embedder   EmbeddingClient
	normalizer *Normalizer
}

func NewAnswerCache(store VerifiedAnswerStore, embedder EmbeddingClient, normalizer *Normalizer) *AnswerCache {
	return &AnswerCache{store: store, embedder: embedder, normalizer: normalizer}
}

// Lookup returns a verified answer for the question, or nil on miss.
// Search failures degrade to a miss so a broken index never fails the
// pipeline.
func (c *AnswerCache) Lookup(ctx context.Context, fingerprint, text string) (*domain.VerifiedAnswer, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnswerCache.Lookup", telemetry.SpanAttributes{
		Operation: "cache_lookup",
	})
	defer span.End()

	rec, err := c.store.GetByFingerprint(ctx, fingerprint)
	if err == nil {
		telemetry.AddBreadcrumb(ctx, "cache", "exact fingerprint hit")
		return rec, nil
	}
	if !errors.Is(err, domain.ErrVerifiedAnswerNotFound) {
		log.Printf("answer cache: fingerprint lookup failed, treating as miss: %v", err)
		return nil, nil
	}

	embedding, err := c.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Printf("answer cache: embedding failed, treating as miss: %v", err)
		return nil, nil
	}

	rec, score, err := c.store.SearchNearest(ctx, embedding)
	if err != nil {
		if !errors.Is(err, domain.ErrVerifiedAnswerNotFound) {
			log.Printf("answer cache: semantic search failed, treating as miss: %v", err)
		}
		return nil, nil
	}
	if score <= semanticMatchThreshold {
		return nil, nil
	}

	telemetry.AddBreadcrumb(ctx, "cache", "semantic hit")
	return rec, nil
}

// Promote stores an approved answer for future reuse, keyed by the
// question's fingerprint. Idempotent: re-promoting replaces the prior
// answer. Returns the fingerprint.
func (c *AnswerCache) Promote(ctx context.Context, text, approvedAnswer, evidenceSource string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnswerCache.Promote", telemetry.SpanAttributes{
		Operation: "cache_promote",
	})
	defer span.End()

	normalized := c.normalizer.Normalize(domain.Question{Text: text})

	embedding, err := c.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		span.SetError(err)
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExternalService, "embedding service unavailable", err)
	}

	now := time.Now().UTC()
	rec := &domain.VerifiedAnswer{
		Fingerprint:    normalized.Fingerprint,
		QuestionText:   text,
		Answer:         approvedAnswer,
		EvidenceSource: evidenceSource,
		Category:       normalized.Category,
		Confidence:     promotedConfidence,
		Embedding:      embedding,
		LastVerified:   now,
	}

	if err := c.store.Upsert(ctx, rec); err != nil {
		span.SetError(err)
		return "", err
	}

	return normalized.Fingerprint, nil
}
