//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/questra-ai/questra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDocument(ctx context.Context, t *testing.T, pool *pgxpool.Pool, title, sourceType string, chunks map[string][]float32) {
	t.Helper()

	docID := uuid.NewString()
	_, err := pool.Exec(ctx,
		`INSERT INTO documents (id, title, source_type) VALUES ($1, $2, $3)`,
		docID, title, sourceType)
	require.NoError(t, err)

	for content, embedding := range chunks {
		_, err := pool.Exec(ctx,
			`INSERT INTO document_chunks (id, doc_id, content, section, embedding) VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), docID, content, "body", pgvector.NewVector(embedding))
		require.NoError(t, err)
	}
}

func TestChunkRepository_Search(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	seedDocument(ctx, t, pool, "Encryption Policy", "policy", map[string][]float32{
		"Data at rest is encrypted with AES-256.": unitVector(1),
	})
	seedDocument(ctx, t, pool, "SOC2 Report", "soc2", map[string][]float32{
		"Annual penetration tests are performed.": unitVector(2),
	})

	results, err := repo.Search(ctx, unitVector(1), 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Nearest chunk first, joined with its document metadata.
	assert.Equal(t, "Data at rest is encrypted with AES-256.", results[0].Text)
	assert.Equal(t, "Encryption Policy", results[0].SourceTitle)
	assert.Equal(t, "policy", results[0].SourceType)
	assert.InDelta(t, 1.0, results[0].SimilarityScore, 1e-6)
	assert.Greater(t, results[0].SimilarityScore, results[1].SimilarityScore)
}

func TestChunkRepository_Search_LimitApplied(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	seedDocument(ctx, t, pool, "Security Procedures", "procedure", map[string][]float32{
		"chunk one":   unitVector(1),
		"chunk two":   unitVector(2),
		"chunk three": unitVector(3),
	})

	results, err := repo.Search(ctx, unitVector(1), 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestChunkRepository_Search_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	results, err := repo.Search(ctx, unitVector(1), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChunkRepository_Counts(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewChunkRepository(pool)

	seedDocument(ctx, t, pool, "Encryption Policy", "policy", map[string][]float32{
		"chunk one": unitVector(1),
		"chunk two": unitVector(2),
	})

	docs, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), docs)

	chunks, err := repo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), chunks)
}
