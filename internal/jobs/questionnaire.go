package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
	"github.com/questra-ai/questra/internal/api"
	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/service"
	"github.com/questra-ai/questra/internal/telemetry"
)

// maxJobsPerTick bounds how many queued jobs one poll tick drains.
const maxJobsPerTick = 10

// JobQueue is the persistence surface of the job queue.
type JobQueue interface {
	ClaimPending(ctx context.Context) (*domain.QuestionnaireJob, error)
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

// Processor runs a questionnaire and optionally its escalation pass.
type Processor interface {
	Process(ctx context.Context, input service.QuestionnaireInput) (*service.QuestionnaireOutput, error)
}

// EscalationEvaluator reviews processed answers for human routing.
type EscalationEvaluator interface {
	Evaluate(ctx context.Context, requestID string, answers []domain.AnswerResult) []service.EscalationResult
}

// QuestionnaireProcessor drains queued questionnaire jobs, runs them
// through the pipeline, and delivers results to each job's callback URL.
type QuestionnaireProcessor struct {
	queue       JobQueue
	pipeline    Processor
	escalations EscalationEvaluator
	http        *resty.Client
}

func NewQuestionnaireProcessor(queue JobQueue, pipeline Processor, escalations EscalationEvaluator) *QuestionnaireProcessor {
	return &QuestionnaireProcessor{
		queue:       queue,
		pipeline:    pipeline,
		escalations: escalations,
		http:        resty.New().SetRetryCount(2),
	}
}

// ProcessJobs claims and runs pending jobs until the queue is empty or
// the per-tick bound is hit. A job failure is recorded on the job and
// never stops the drain.
func (p *QuestionnaireProcessor) ProcessJobs(ctx context.Context) error {
	for i := 0; i < maxJobsPerTick; i++ {
		job, err := p.queue.ClaimPending(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				return nil
			}
			return fmt.Errorf("claim pending job: %w", err)
		}

		if err := p.runJob(ctx, job); err != nil {
			log.Printf("questionnaire job %s failed: %v", job.ID, err)
			telemetry.CaptureError(ctx, err)
			if markErr := p.queue.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				log.Printf("questionnaire job %s: failed to record failure: %v", job.ID, markErr)
			}
			continue
		}

		if err := p.queue.MarkCompleted(ctx, job.ID); err != nil {
			log.Printf("questionnaire job %s: failed to mark completed: %v", job.ID, err)
		}
	}
	return nil
}

type callbackPayload struct {
	JobID         string                    `json:"job_id"`
	Questionnaire api.QuestionnaireResponse `json:"questionnaire"`
	Escalations   *api.EscalationResponse   `json:"escalations,omitempty"`
}

func (p *QuestionnaireProcessor) runJob(ctx context.Context, job *domain.QuestionnaireJob) error {
	ctx, span := telemetry.StartSpan(ctx, "QuestionnaireProcessor.runJob", telemetry.SpanAttributes{
		RequestID: job.RequestID,
		Operation: "async_questionnaire",
	})
	defer span.End()

	var req api.QuestionnaireRequest
	if err := json.Unmarshal(job.Payload, &req); err != nil {
		return fmt.Errorf("decode job payload: %w", err)
	}

	output, err := p.pipeline.Process(ctx, req.ToInput())
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("process questionnaire: %w", err)
	}

	payload := callbackPayload{
		JobID:         job.ID,
		Questionnaire: api.ToQuestionnaireResponse(output),
	}

	if p.escalations != nil && output.EscalationsRequired > 0 {
		var answers []domain.AnswerResult
		for _, b := range output.Batches {
			answers = append(answers, b.Answers...)
		}
		resp := api.ToEscalationResponse(output.RequestID, p.escalations.Evaluate(ctx, output.RequestID, answers))
		payload.Escalations = &resp
	}

	if job.CallbackURL == "" {
		return nil
	}

	httpResp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(job.CallbackURL)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("deliver callback: %w", err)
	}
	if httpResp.IsError() {
		return fmt.Errorf("callback returned status %d", httpResp.StatusCode())
	}

	return nil
}
