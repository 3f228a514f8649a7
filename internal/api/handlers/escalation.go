package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/questra-ai/questra/internal/api"
	"github.com/questra-ai/questra/internal/domain"
)

type EscalationHandler struct {
	escalations EscalationEvaluator
}

func NewEscalationHandler(escalations EscalationEvaluator) *EscalationHandler {
	return &EscalationHandler{escalations: escalations}
}

type evaluateAnswerRequest struct {
	QuestionID       string                 `json:"question_id"`
	QuestionText     string                 `json:"question_text"`
	Answer           string                 `json:"answer"`
	ConfidenceScore  float64                `json:"confidence_score"`
	Category         string                 `json:"category,omitempty"`
	Reasoning        string                 `json:"reasoning,omitempty"`
	NeedsEscalation  bool                   `json:"needs_escalation"`
	EscalationReason string                 `json:"escalation_reason,omitempty"`
	Citations        []api.CitationResponse `json:"citations,omitempty"`
}

type evaluateRequest struct {
	RequestID string                  `json:"request_id"`
	Answers   []evaluateAnswerRequest `json:"answers"`
}

// Evaluate runs the escalation decision over externally produced
// answers, for callers that processed the questionnaire elsewhere.
func (h *EscalationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, validationError(err))
		return
	}
	if req.RequestID == "" {
		api.HandleError(w, domain.ErrMissingRequestID)
		return
	}
	if len(req.Answers) == 0 {
		api.HandleError(w, domain.NewDomainError(domain.ErrCodeValidation, "at least one answer is required"))
		return
	}

	answers := make([]domain.AnswerResult, 0, len(req.Answers))
	for _, a := range req.Answers {
		if a.QuestionID == "" {
			api.HandleError(w, domain.ErrMissingQuestionID)
			return
		}

		citations := make([]domain.Citation, 0, len(a.Citations))
		for _, c := range a.Citations {
			citations = append(citations, domain.Citation{
				DocID:          c.DocID,
				DocTitle:       c.DocTitle,
				Excerpt:        c.Excerpt,
				RelevanceScore: c.RelevanceScore,
			})
		}

		score := domain.ClampConfidence(a.ConfidenceScore)
		answers = append(answers, domain.AnswerResult{
			QuestionID:       a.QuestionID,
			QuestionText:     a.QuestionText,
			AnswerText:       a.Answer,
			ConfidenceScore:  score,
			ConfidenceLevel:  domain.LevelForScore(score),
			SourceKind:       domain.SourceRetrieval,
			Citations:        citations,
			Reasoning:        a.Reasoning,
			NeedsEscalation:  a.NeedsEscalation,
			EscalationReason: a.EscalationReason,
			Category:         domain.Category(a.Category),
		})
	}

	results := h.escalations.Evaluate(r.Context(), req.RequestID, answers)
	api.Success(w, http.StatusOK, api.ToEscalationResponse(req.RequestID, results))
}
