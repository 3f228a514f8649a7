package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/questra-ai/questra/internal/domain"
)

const defaultCandidatePool = 100

// ChunkRepository handles vector search over document chunks.
type ChunkRepository struct {
	pool *pgxpool.Pool
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{pool: pool}
}

// Search returns the top chunks nearest to the embedding, joined with
// their parent document's title and type. The candidate pool is
// oversampled before narrowing to limit.
func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, limit int) ([]domain.Evidence, error) {
	if limit <= 0 {
		limit = 5
	}
	candidates := defaultCandidatePool
	if candidates < limit {
		candidates = limit
	}

	vec := pgvector.NewVector(embedding)

	query := `
		WITH candidates AS (
			SELECT c.content, c.section, c.doc_id,
			       1.0 / (1.0 + (c.embedding <=> $1)) AS score
			FROM document_chunks c
			WHERE c.embedding IS NOT NULL
			ORDER BY c.embedding <=> $1
			LIMIT $2
		)
		SELECT cand.content, cand.section, cand.score, d.title, d.source_type
		FROM candidates cand
		JOIN documents d ON d.id = cand.doc_id
		ORDER BY cand.score DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, vec, candidates, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Evidence, 0, limit)
	for rows.Next() {
		var e domain.Evidence
		var section *string
		if err := rows.Scan(&e.Text, &section, &e.SimilarityScore, &e.SourceTitle, &e.SourceType); err != nil {
			return nil, err
		}
		if section != nil {
			e.Section = *section
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// CountDocuments returns the number of source documents.
func (r *ChunkRepository) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountChunks returns the number of indexed chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count)
	return count, err
}
