package api

import (
	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/service"
)

// QuestionRequest is one question in a questionnaire request.
type QuestionRequest struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	Category     string `json:"category,omitempty"`
}

// ContextDocumentRequest is a caller-supplied citation candidate.
type ContextDocumentRequest struct {
	DocID    string         `json:"doc_id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Source   string         `json:"source,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QuestionnaireRequest is the wire form of a questionnaire submission,
// shared by the HTTP handlers and the async job payload.
type QuestionnaireRequest struct {
	RequestID        string                   `json:"request_id"`
	Questions        []QuestionRequest        `json:"questions"`
	ContextDocuments []ContextDocumentRequest `json:"context_documents,omitempty"`
	CallbackURL      string                   `json:"callback_url,omitempty"`
}

// ToInput converts the wire request to the pipeline input.
func (r *QuestionnaireRequest) ToInput() service.QuestionnaireInput {
	questions := make([]domain.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, domain.Question{
			ID:       q.QuestionID,
			Text:     q.QuestionText,
			Category: domain.Category(q.Category),
		})
	}

	docs := make([]domain.ContextDocument, 0, len(r.ContextDocuments))
	for _, d := range r.ContextDocuments {
		docs = append(docs, domain.ContextDocument{
			DocID:    d.DocID,
			Title:    d.Title,
			Content:  d.Content,
			Source:   d.Source,
			Metadata: d.Metadata,
		})
	}

	return service.QuestionnaireInput{
		RequestID:        r.RequestID,
		Questions:        questions,
		ContextDocuments: docs,
	}
}

// CitationResponse is the wire form of a citation.
type CitationResponse struct {
	DocID          string  `json:"doc_id"`
	DocTitle       string  `json:"doc_title"`
	Excerpt        string  `json:"relevant_excerpt"`
	RelevanceScore float64 `json:"relevance_score"`
}

// AnswerResponse is the wire form of one answered question.
type AnswerResponse struct {
	QuestionID       string             `json:"question_id"`
	QuestionText     string             `json:"question_text"`
	Answer           string             `json:"answer"`
	ConfidenceScore  float64            `json:"confidence_score"`
	ConfidenceLevel  string             `json:"confidence"`
	SourceKind       string             `json:"source"`
	Citations        []CitationResponse `json:"citations"`
	Reasoning        string             `json:"reasoning,omitempty"`
	NeedsEscalation  bool               `json:"needs_escalation"`
	EscalationReason string             `json:"escalation_reason,omitempty"`
	Category         string             `json:"category,omitempty"`
}

// BatchResponse groups answers by processing batch.
type BatchResponse struct {
	BatchNumber int              `json:"batch_number"`
	Answers     []AnswerResponse `json:"answers"`
}

// QuestionnaireResponse is the wire form of a completed questionnaire.
type QuestionnaireResponse struct {
	RequestID           string          `json:"request_id"`
	TotalQuestions      int             `json:"total_questions"`
	TotalBatches        int             `json:"total_batches"`
	Batches             []BatchResponse `json:"batches"`
	EscalationsRequired int             `json:"escalations_required"`
	Status              string          `json:"status"`
}

func toCitationResponses(citations []domain.Citation) []CitationResponse {
	out := make([]CitationResponse, 0, len(citations))
	for _, c := range citations {
		out = append(out, CitationResponse{
			DocID:          c.DocID,
			DocTitle:       c.DocTitle,
			Excerpt:        c.Excerpt,
			RelevanceScore: c.RelevanceScore,
		})
	}
	return out
}

// ToAnswerResponse converts a pipeline result to its wire form.
func ToAnswerResponse(a domain.AnswerResult) AnswerResponse {
	return AnswerResponse{
		QuestionID:       a.QuestionID,
		QuestionText:     a.QuestionText,
		Answer:           a.AnswerText,
		ConfidenceScore:  a.ConfidenceScore,
		ConfidenceLevel:  string(a.ConfidenceLevel),
		SourceKind:       string(a.SourceKind),
		Citations:        toCitationResponses(a.Citations),
		Reasoning:        a.Reasoning,
		NeedsEscalation:  a.NeedsEscalation,
		EscalationReason: a.EscalationReason,
		Category:         string(a.Category),
	}
}

// ToQuestionnaireResponse converts a pipeline output to its wire form.
func ToQuestionnaireResponse(out *service.QuestionnaireOutput) QuestionnaireResponse {
	batches := make([]BatchResponse, 0, len(out.Batches))
	for _, b := range out.Batches {
		answers := make([]AnswerResponse, 0, len(b.Answers))
		for _, a := range b.Answers {
			answers = append(answers, ToAnswerResponse(a))
		}
		batches = append(batches, BatchResponse{BatchNumber: b.BatchNumber, Answers: answers})
	}

	return QuestionnaireResponse{
		RequestID:           out.RequestID,
		TotalQuestions:      out.TotalQuestions,
		TotalBatches:        out.TotalBatches,
		Batches:             batches,
		EscalationsRequired: out.EscalationsRequired,
		Status:              out.Status,
	}
}

// RoutedEmployeeResponse is the wire form of a routed reviewer.
type RoutedEmployeeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// EscalationResultResponse is the wire form of one escalation decision.
type EscalationResultResponse struct {
	QuestionID         string                  `json:"question_id"`
	QuestionText       string                  `json:"question_text"`
	Answer             string                  `json:"answer"`
	ConfidenceLevel    string                  `json:"confidence"`
	ConfidenceScore    float64                 `json:"confidence_score"`
	RequiresEscalation bool                    `json:"requires_escalation"`
	EscalationReason   string                  `json:"escalation_reason,omitempty"`
	RoutedTo           *RoutedEmployeeResponse `json:"routed_to,omitempty"`
	Department         string                  `json:"department,omitempty"`
	Category           string                  `json:"category,omitempty"`
	Citations          []CitationResponse      `json:"citations,omitempty"`
}

// EscalationResponse is the wire form of an escalation evaluation run.
type EscalationResponse struct {
	RequestID           string                     `json:"request_id"`
	TotalQuestions      int                        `json:"total_questions"`
	EscalationsRequired int                        `json:"escalations_required"`
	Results             []EscalationResultResponse `json:"results"`
	Status              string                     `json:"status"`
}

// ToEscalationResponse converts escalation results to their wire form.
func ToEscalationResponse(requestID string, results []service.EscalationResult) EscalationResponse {
	out := make([]EscalationResultResponse, 0, len(results))
	escalations := 0
	for _, r := range results {
		if r.RequiresEscalation {
			escalations++
		}
		resp := EscalationResultResponse{
			QuestionID:         r.QuestionID,
			QuestionText:       r.QuestionText,
			Answer:             r.Answer,
			ConfidenceLevel:    r.ConfidenceLevel,
			ConfidenceScore:    r.ConfidenceScore,
			RequiresEscalation: r.RequiresEscalation,
			EscalationReason:   r.EscalationReason,
			Department:         r.Department,
			Category:           r.Category,
			Citations:          toCitationResponses(r.Citations),
		}
		if r.RoutedTo != nil {
			resp.RoutedTo = &RoutedEmployeeResponse{
				ID:         r.RoutedTo.ID,
				Name:       r.RoutedTo.Name,
				Email:      r.RoutedTo.Email,
				Role:       r.RoutedTo.Role,
				Department: r.RoutedTo.Department,
			}
		}
		out = append(out, resp)
	}

	return EscalationResponse{
		RequestID:           requestID,
		TotalQuestions:      len(results),
		EscalationsRequired: escalations,
		Results:             out,
		Status:              "completed",
	}
}
