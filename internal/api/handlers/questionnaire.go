package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/questra-ai/questra/internal/api"
	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/service"
)

type QuestionnairePipeline interface {
	Process(ctx context.Context, input service.QuestionnaireInput) (*service.QuestionnaireOutput, error)
}

type EscalationEvaluator interface {
	Evaluate(ctx context.Context, requestID string, answers []domain.AnswerResult) []service.EscalationResult
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, job *domain.QuestionnaireJob) (string, error)
	GetByID(ctx context.Context, id string) (*domain.QuestionnaireJob, error)
}

type QuestionnaireHandler struct {
	pipeline    QuestionnairePipeline
	escalations EscalationEvaluator
	jobs        JobEnqueuer
}

func NewQuestionnaireHandler(pipeline QuestionnairePipeline, escalations EscalationEvaluator, jobs JobEnqueuer) *QuestionnaireHandler {
	return &QuestionnaireHandler{pipeline: pipeline, escalations: escalations, jobs: jobs}
}

func decodeQuestionnaire(r *http.Request) (*api.QuestionnaireRequest, service.QuestionnaireInput, error) {
	var req api.QuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, service.QuestionnaireInput{}, err
	}

	input := req.ToInput()
	if err := input.Validate(); err != nil {
		return nil, service.QuestionnaireInput{}, err
	}
	return &req, input, nil
}

// Process runs a questionnaire synchronously and returns the answers.
func (h *QuestionnaireHandler) Process(w http.ResponseWriter, r *http.Request) {
	_, input, err := decodeQuestionnaire(r)
	if err != nil {
		api.HandleError(w, validationError(err))
		return
	}

	output, err := h.pipeline.Process(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, api.ToQuestionnaireResponse(output))
}

type processWithEscalationResponse struct {
	Questionnaire api.QuestionnaireResponse `json:"questionnaire"`
	Escalations   api.EscalationResponse    `json:"escalations"`
}

// ProcessWithEscalation runs the pipeline and then the escalation
// evaluation over the produced answers in one call.
func (h *QuestionnaireHandler) ProcessWithEscalation(w http.ResponseWriter, r *http.Request) {
	_, input, err := decodeQuestionnaire(r)
	if err != nil {
		api.HandleError(w, validationError(err))
		return
	}

	output, err := h.pipeline.Process(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	var answers []domain.AnswerResult
	for _, b := range output.Batches {
		answers = append(answers, b.Answers...)
	}
	results := h.escalations.Evaluate(r.Context(), output.RequestID, answers)

	api.Success(w, http.StatusOK, processWithEscalationResponse{
		Questionnaire: api.ToQuestionnaireResponse(output),
		Escalations:   api.ToEscalationResponse(output.RequestID, results),
	})
}

type enqueueResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ProcessAsync queues the questionnaire for background processing. The
// result is delivered to the request's callback_url when done.
func (h *QuestionnaireHandler) ProcessAsync(w http.ResponseWriter, r *http.Request) {
	req, _, err := decodeQuestionnaire(r)
	if err != nil {
		api.HandleError(w, validationError(err))
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		api.HandleError(w, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to encode job payload", err))
		return
	}

	job := &domain.QuestionnaireJob{
		RequestID:   req.RequestID,
		Payload:     payload,
		CallbackURL: req.CallbackURL,
	}
	jobID, err := h.jobs.Enqueue(r.Context(), job)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, enqueueResponse{JobID: jobID, Status: string(domain.JobStatusPending)})
}

type jobStatusResponse struct {
	JobID     string `json:"job_id"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// JobStatus reports the state of a queued questionnaire job.
func (h *QuestionnaireHandler) JobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.jobs.GetByID(r.Context(), jobID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, jobStatusResponse{
		JobID:     job.ID,
		RequestID: job.RequestID,
		Status:    string(job.Status),
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: job.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// validationError keeps malformed JSON and failed validation both mapped
// to 400 without leaking decoder internals.
func validationError(err error) error {
	if _, ok := err.(*domain.DomainError); ok {
		return err
	}
	return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid request body", err)
}
