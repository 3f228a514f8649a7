//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitVector builds a 1536-dim embedding with a single hot component, so
// distinct seeds are orthogonal under cosine distance.
func unitVector(seed int) []float32 {
	v := make([]float32, 1536)
	v[seed%len(v)] = 1.0
	return v
}

func TestVerifiedAnswerRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewVerifiedAnswerRepository(pool)

	rec := &domain.VerifiedAnswer{
		Fingerprint:    "do_you_encrypt_data_at",
		QuestionText:   "Do you encrypt data at rest?",
		Answer:         "Yes, AES-256.",
		EvidenceSource: "Encryption Policy",
		Category:       domain.CategoryEncryption,
		Confidence:     0.95,
		Embedding:      unitVector(1),
	}
	require.NoError(t, repo.Upsert(ctx, rec))

	got, err := repo.GetByFingerprint(ctx, "do_you_encrypt_data_at")
	require.NoError(t, err)
	assert.Equal(t, rec.Answer, got.Answer)
	assert.Equal(t, domain.CategoryEncryption, got.Category)
	assert.Equal(t, 0.95, got.Confidence)
	assert.False(t, got.LastVerified.IsZero())
	assert.False(t, got.CreatedAt.IsZero())
}

func TestVerifiedAnswerRepository_GetByFingerprint_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewVerifiedAnswerRepository(pool)

	_, err := repo.GetByFingerprint(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrVerifiedAnswerNotFound)
}

func TestVerifiedAnswerRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewVerifiedAnswerRepository(pool)

	rec := &domain.VerifiedAnswer{
		Fingerprint:  "do_you_encrypt_data_at",
		QuestionText: "Do you encrypt data at rest?",
		Answer:       "Yes.",
		Category:     domain.CategoryEncryption,
		Confidence:   0.95,
		Embedding:    unitVector(1),
	}
	require.NoError(t, repo.Upsert(ctx, rec))

	rec.Answer = "Yes, AES-256 with KMS-managed keys."
	require.NoError(t, repo.Upsert(ctx, rec))

	got, err := repo.GetByFingerprint(ctx, "do_you_encrypt_data_at")
	require.NoError(t, err)
	assert.Equal(t, "Yes, AES-256 with KMS-managed keys.", got.Answer)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestVerifiedAnswerRepository_SearchNearest(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewVerifiedAnswerRepository(pool)

	require.NoError(t, repo.Upsert(ctx, &domain.VerifiedAnswer{
		Fingerprint: "encryption_question", QuestionText: "q1", Answer: "a1",
		Category: domain.CategoryEncryption, Confidence: 0.95, Embedding: unitVector(1),
	}))
	require.NoError(t, repo.Upsert(ctx, &domain.VerifiedAnswer{
		Fingerprint: "compliance_question", QuestionText: "q2", Answer: "a2",
		Category: domain.CategoryCompliance, Confidence: 0.95, Embedding: unitVector(2),
	}))

	got, score, err := repo.SearchNearest(ctx, unitVector(1))
	require.NoError(t, err)
	assert.Equal(t, "encryption_question", got.Fingerprint)
	// Identical vector, zero cosine distance.
	assert.InDelta(t, 1.0, score, 1e-6)
}

func TestVerifiedAnswerRepository_SearchNearest_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewVerifiedAnswerRepository(pool)

	_, _, err := repo.SearchNearest(ctx, unitVector(1))
	assert.ErrorIs(t, err, domain.ErrVerifiedAnswerNotFound)
}
