package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/questra-ai/questra/internal/domain"
)

// VerifiedAnswerRepository handles persistence of human-approved answers.
type VerifiedAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewVerifiedAnswerRepository(pool *pgxpool.Pool) *VerifiedAnswerRepository {
	return &VerifiedAnswerRepository{pool: pool}
}

// GetByFingerprint returns the record keyed by fingerprint, or
// ErrVerifiedAnswerNotFound.
func (r *VerifiedAnswerRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.VerifiedAnswer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT fingerprint, question_text, answer, evidence_source, category, confidence, last_verified, created_at
		 FROM verified_answers WHERE fingerprint = $1`,
		fingerprint,
	)

	var rec domain.VerifiedAnswer
	var category string
	err := row.Scan(&rec.Fingerprint, &rec.QuestionText, &rec.Answer, &rec.EvidenceSource, &category, &rec.Confidence, &rec.LastVerified, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVerifiedAnswerNotFound
		}
		return nil, err
	}
	rec.Category = domain.Category(category)

	return &rec, nil
}

// SearchNearest returns the single verified answer nearest to the
// embedding together with its similarity score. No rows means no record
// has an embedding yet.
func (r *VerifiedAnswerRepository) SearchNearest(ctx context.Context, embedding []float32) (*domain.VerifiedAnswer, float64, error) {
	vec := pgvector.NewVector(embedding)

	row := r.pool.QueryRow(ctx,
		`SELECT fingerprint, question_text, answer, evidence_source, category, confidence, last_verified, created_at,
		        1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM verified_answers
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT 1`,
		vec,
	)

	var rec domain.VerifiedAnswer
	var category string
	var score float64
	err := row.Scan(&rec.Fingerprint, &rec.QuestionText, &rec.Answer, &rec.EvidenceSource, &category, &rec.Confidence, &rec.LastVerified, &rec.CreatedAt, &score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, domain.ErrVerifiedAnswerNotFound
		}
		return nil, 0, err
	}
	rec.Category = domain.Category(category)

	return &rec, score, nil
}

// Upsert writes a verified answer keyed by fingerprint. Re-promoting the
// same question replaces the prior answer.
func (r *VerifiedAnswerRepository) Upsert(ctx context.Context, rec *domain.VerifiedAnswer) error {
	now := time.Now().UTC()
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	lastVerified := rec.LastVerified
	if lastVerified.IsZero() {
		lastVerified = now
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO verified_answers
			(fingerprint, question_text, answer, evidence_source, category, confidence, embedding, last_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (fingerprint) DO UPDATE SET
			question_text = EXCLUDED.question_text,
			answer = EXCLUDED.answer,
			evidence_source = EXCLUDED.evidence_source,
			category = EXCLUDED.category,
			confidence = EXCLUDED.confidence,
			embedding = EXCLUDED.embedding,
			last_verified = EXCLUDED.last_verified`,
		rec.Fingerprint,
		rec.QuestionText,
		rec.Answer,
		rec.EvidenceSource,
		string(rec.Category),
		rec.Confidence,
		pgvector.NewVector(rec.Embedding),
		lastVerified,
		createdAt,
	)
	return err
}

// Count returns the number of verified answers.
func (r *VerifiedAnswerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM verified_answers`).Scan(&count)
	return count, err
}
