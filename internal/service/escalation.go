package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/llm"
	"github.com/questra-ai/questra/internal/telemetry"
)

const (
	escalationTemperature = 0.3
	escalationMaxTokens   = 200
	escalationExcerptMax  = 200
)

const escalationSystemPrompt = "You are an expert security analyst. Respond only with valid JSON."

// RoutedEmployee is the reviewer an escalation was assigned to.
type RoutedEmployee struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Department string
}

// EscalationResult is the per-question outcome of an escalation review.
type EscalationResult struct {
	QuestionID         string
	QuestionText       string
	Answer             string
	ConfidenceLevel    string
	ConfidenceScore    float64
	RequiresEscalation bool
	EscalationReason   string
	RoutedTo           *RoutedEmployee
	Department         string
	Category           string
	Citations          []domain.Citation
}

type escalationVerdict struct {
	RequiresEscalation bool   `json:"requires_escalation"`
	Reason             string `json:"reason"`
	Department         string `json:"department"`
}

// EscalationService decides which drafted answers need a human and routes
// them to a reviewer.
type EscalationService struct {
	client    CompletionClient
	router    *EmployeeRouter
	threshold float64
}

func NewEscalationService(client CompletionClient, router *EmployeeRouter, threshold float64) *EscalationService {
	return &EscalationService{client: client, router: router, threshold: threshold}
}

// Evaluate reviews each answer. An answer already flagged upstream stays
// flagged; otherwise the decision is threshold OR model review, with the
// model call degrading to pure threshold on failure.
func (s *EscalationService) Evaluate(ctx context.Context, requestID string, answers []domain.AnswerResult) []EscalationResult {
	ctx, span := telemetry.StartSpan(ctx, "EscalationService.Evaluate", telemetry.SpanAttributes{
		RequestID: requestID,
		Operation: "escalation_evaluate",
	})
	defer span.End()

	results := make([]EscalationResult, 0, len(answers))
	for _, answer := range answers {
		results = append(results, s.evaluateOne(ctx, answer))
	}
	return results
}

func (s *EscalationService) evaluateOne(ctx context.Context, answer domain.AnswerResult) EscalationResult {
	var verdict escalationVerdict

	if answer.NeedsEscalation {
		reason := answer.EscalationReason
		if reason == "" {
			reason = "Flagged during answer drafting"
		}
		verdict = escalationVerdict{
			RequiresEscalation: true,
			Reason:             reason,
			Department:         s.router.ResolveDepartment(answer.Category, ""),
		}
	} else {
		verdict = s.review(ctx, answer)
		if answer.ConfidenceScore < s.threshold {
			verdict.RequiresEscalation = true
			if verdict.Reason == "" {
				verdict.Reason = fmt.Sprintf("Low confidence score: %.2f", answer.ConfidenceScore)
			}
		}
	}

	result := EscalationResult{
		QuestionID:         answer.QuestionID,
		QuestionText:       answer.QuestionText,
		Answer:             answer.AnswerText,
		ConfidenceLevel:    string(answer.ConfidenceLevel),
		ConfidenceScore:    answer.ConfidenceScore,
		RequiresEscalation: verdict.RequiresEscalation,
		Category:           string(answer.Category),
		Citations:          answer.Citations,
	}

	if verdict.RequiresEscalation {
		result.EscalationReason = verdict.Reason
		if result.EscalationReason == "" {
			result.EscalationReason = fmt.Sprintf("Low confidence score: %.2f", answer.ConfidenceScore)
		}

		emp, department := s.router.Route(ctx, answer.Category, verdict.Department)
		result.Department = department
		if emp != nil {
			result.RoutedTo = &RoutedEmployee{
				ID:         emp.ID,
				Name:       emp.Name,
				Email:      emp.Email,
				Role:       emp.Role,
				Department: emp.Department,
			}
			result.Department = emp.Department
		}
	}

	return result
}

// review asks the model whether the Q&A pair needs human review. Any
// failure falls back to the pure threshold decision.
func (s *EscalationService) review(ctx context.Context, answer domain.AnswerResult) escalationVerdict {
	prompt := fmt.Sprintf(`You are a security questionnaire review system. Analyze if this Q&A pair requires human escalation.

Question: %s
Answer: %s
Confidence Score: %.2f
Category: %s

Citations Context:
%s

Original Reasoning: %s

Consider these factors:
1. Is the answer complete and accurate?
2. Does the answer address all aspects of the question?
3. Are the citations relevant and sufficient?
4. Is the confidence score appropriate for the complexity?
5. Are there any security concerns that need human review?

Respond in JSON format:
{
    "requires_escalation": true/false,
    "reason": "Brief explanation",
    "department": "Suggested department (e.g., Security, Compliance, Engineering) or null"
}`,
		answer.QuestionText, answer.AnswerText, answer.ConfidenceScore,
		categoryOrGeneral(answer.Category), citationsContext(answer.Citations), answer.Reasoning)

	content, err := s.client.Complete(ctx,
		[]llm.Message{
			{Role: llm.RoleSystem, Content: escalationSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		escalationTemperature, escalationMaxTokens,
	)
	if err != nil {
		log.Printf("escalation review: model call failed, using threshold decision: %v", err)
		return s.thresholdVerdict(answer)
	}

	var verdict escalationVerdict
	if err := llm.ParseJSON(content, &verdict); err != nil {
		log.Printf("escalation review: unparseable model output, using threshold decision: %v", err)
		return s.thresholdVerdict(answer)
	}

	return verdict
}

func (s *EscalationService) thresholdVerdict(answer domain.AnswerResult) escalationVerdict {
	return escalationVerdict{
		RequiresEscalation: answer.ConfidenceScore < s.threshold,
		Reason:             fmt.Sprintf("Fallback: confidence %.2f below threshold", answer.ConfidenceScore),
		Department:         s.router.ResolveDepartment(answer.Category, ""),
	}
}

func citationsContext(citations []domain.Citation) string {
	if len(citations) == 0 {
		return "No citations provided."
	}

	parts := make([]string, 0, len(citations))
	for i, c := range citations {
		excerpt := c.Excerpt
		if len(excerpt) > escalationExcerptMax {
			excerpt = excerpt[:escalationExcerptMax] + "..."
		}
		parts = append(parts, fmt.Sprintf("Citation %d: %s\n  Excerpt: %s\n  Relevance: %.2f",
			i+1, c.DocTitle, excerpt, c.RelevanceScore))
	}
	return strings.Join(parts, "\n\n")
}
