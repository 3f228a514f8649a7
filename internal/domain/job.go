package domain

import "time"

// JobStatus is the lifecycle state of an async questionnaire job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// QuestionnaireJob is a queued questionnaire request processed in the
// background, with the result delivered to the callback URL.
type QuestionnaireJob struct {
	ID          string
	RequestID   string
	Payload     []byte
	CallbackURL string
	Status      JobStatus
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
