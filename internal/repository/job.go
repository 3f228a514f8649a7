package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/questra-ai/questra/internal/domain"
)

// JobRepository handles the async questionnaire job queue.
type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Enqueue inserts a pending job and returns its ID.
func (r *JobRepository) Enqueue(ctx context.Context, job *domain.QuestionnaireJob) (string, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO questionnaire_jobs (id, request_id, payload, callback_url, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		job.ID, job.RequestID, job.Payload, job.CallbackURL, domain.JobStatusPending, now,
	)
	if err != nil {
		return "", err
	}
	return job.ID, nil
}

// ClaimPending atomically claims the oldest pending job by marking it
// processing. Returns ErrJobNotFound when the queue is empty. SKIP LOCKED
// keeps concurrent workers from claiming the same row.
func (r *JobRepository) ClaimPending(ctx context.Context) (*domain.QuestionnaireJob, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE questionnaire_jobs
		 SET status = $1, updated_at = NOW()
		 WHERE id = (
			SELECT id FROM questionnaire_jobs
			WHERE status = $2
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		 )
		 RETURNING id, request_id, payload, callback_url, status, COALESCE(error, ''), created_at, updated_at`,
		domain.JobStatusProcessing, domain.JobStatusPending,
	)

	var job domain.QuestionnaireJob
	err := row.Scan(&job.ID, &job.RequestID, &job.Payload, &job.CallbackURL, &job.Status, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// MarkCompleted finalizes a job after its callback has been delivered.
func (r *JobRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, domain.JobStatusCompleted, "")
}

// MarkFailed records the failure reason for later inspection.
func (r *JobRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.setStatus(ctx, id, domain.JobStatusFailed, reason)
}

func (r *JobRepository) setStatus(ctx context.Context, id string, status domain.JobStatus, reason string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questionnaire_jobs
		 SET status = $1, error = NULLIF($2, ''), updated_at = NOW()
		 WHERE id = $3`,
		status, reason, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// GetByID returns a job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.QuestionnaireJob, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, request_id, payload, callback_url, status, COALESCE(error, ''), created_at, updated_at
		 FROM questionnaire_jobs WHERE id = $1`,
		id,
	)

	var job domain.QuestionnaireJob
	err := row.Scan(&job.ID, &job.RequestID, &job.Payload, &job.CallbackURL, &job.Status, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}
