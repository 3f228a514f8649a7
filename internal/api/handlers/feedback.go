package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/questra-ai/questra/internal/api"
	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/service"
)

type FeedbackLearner interface {
	LearnFromFeedback(ctx context.Context, question, approvedAnswer, evidenceSource string) (string, error)
	GetStats(ctx context.Context) (*service.Stats, error)
}

type FeedbackHandler struct {
	learner FeedbackLearner
}

func NewFeedbackHandler(learner FeedbackLearner) *FeedbackHandler {
	return &FeedbackHandler{learner: learner}
}

type feedbackRequest struct {
	Question       string `json:"question"`
	ApprovedAnswer string `json:"approved_answer"`
	EvidenceSource string `json:"evidence_source"`
}

type feedbackResponse struct {
	Fingerprint string `json:"fingerprint"`
	Status      string `json:"status"`
}

// Submit promotes a human-approved answer into the verified-answer
// cache for future reuse.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, validationError(err))
		return
	}
	if req.Question == "" {
		api.HandleError(w, domain.NewDomainError(domain.ErrCodeValidation, "question is required"))
		return
	}
	if req.ApprovedAnswer == "" {
		api.HandleError(w, domain.NewDomainError(domain.ErrCodeValidation, "approved_answer is required"))
		return
	}

	fingerprint, err := h.learner.LearnFromFeedback(r.Context(), req.Question, req.ApprovedAnswer, req.EvidenceSource)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, feedbackResponse{Fingerprint: fingerprint, Status: "learned"})
}

type statsResponse struct {
	VerifiedAnswers int64 `json:"verified_answers_count"`
	Documents       int64 `json:"documents_count"`
	Chunks          int64 `json:"chunks_count"`
	Employees       int64 `json:"employees_count"`
}

// Stats reports knowledge-base and directory counts.
func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.learner.GetStats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, statsResponse{
		VerifiedAnswers: stats.VerifiedAnswers,
		Documents:       stats.Documents,
		Chunks:          stats.Chunks,
		Employees:       stats.Employees,
	})
}
