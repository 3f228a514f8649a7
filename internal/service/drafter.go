package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/llm"
	"github.com/questra-ai/questra/internal/telemetry"
)

const (
	drafterTemperature = 0.4
	drafterMaxTokens   = 1024

	// malformedDraftConfidence is assigned when the model's draft cannot
	// be parsed; low enough to force escalation at any sane threshold.
	malformedDraftConfidence = 0.1
)

const draftingSystemPrompt = `You are a drafting assistant specializing in answering security questionnaires.

Generate accurate, professional answers based on the provided citations.

GUIDELINES:
1. Base your answers ONLY on the provided citations
2. Be concise but comprehensive
3. Use professional security/compliance language
4. ALWAYS cite your sources by document name in the answer, e.g. "According to our Information Security Policy, ..."
5. Assign confidence based on citation quality and coverage:
   - HIGH (0.8-1.0): strong, direct evidence in citations
   - MEDIUM (0.5-0.79): partial evidence or inference required
   - LOW (0.0-0.49): weak evidence or significant assumptions needed
6. If citations are insufficient, acknowledge limitations in the answer
7. In reasoning, reference specific document names and what they state

Output JSON:
{
    "answer": "Your answer with document citations inline",
    "confidence": "high|medium|low",
    "confidence_score": 0.85,
    "reasoning": "Which documents support the answer and how"
}`

// Draft is the model's answer for one question. SelfScore is the model's
// own confidence assessment; the pipeline's escalation decision uses the
// analytical score, keeping the self-score advisory.
type Draft struct {
	Answer    string
	SelfLevel domain.ConfidenceLevel
	SelfScore float64
	Reasoning string
	Malformed bool
}

type draftPayload struct {
	Answer          string  `json:"answer"`
	Confidence      string  `json:"confidence"`
	ConfidenceScore float64 `json:"confidence_score"`
	Reasoning       string  `json:"reasoning"`
}

// AnswerDrafter generates answers from citations.
type AnswerDrafter struct {
	client CompletionClient
}

func NewAnswerDrafter(client CompletionClient) *AnswerDrafter {
	return &AnswerDrafter{client: client}
}

// DraftAnswer produces an answer for the question from its citations.
// A malformed model response degrades to a low-confidence draft that the
// caller must escalate; only a transport failure is an error.
func (d *AnswerDrafter) DraftAnswer(ctx context.Context, q domain.Question, citations []domain.Citation) (Draft, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnswerDrafter.DraftAnswer", telemetry.SpanAttributes{
		QuestionID: q.ID,
		Operation:  "draft_answer",
	})
	defer span.End()

	userPrompt := fmt.Sprintf(`Generate an answer for the following security questionnaire question:

QUESTION ID: %s
QUESTION: %s
CATEGORY: %s

AVAILABLE CITATIONS:
%s

Based on these citations, provide a comprehensive answer with confidence assessment in JSON format.`,
		q.ID, q.Text, categoryOrGeneral(q.Category), formatCitations(citations))

	content, err := d.client.Complete(ctx,
		[]llm.Message{
			{Role: llm.RoleSystem, Content: draftingSystemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		drafterTemperature, drafterMaxTokens,
	)
	if err != nil {
		span.SetError(err)
		return Draft{}, domain.NewDomainErrorWithCause(domain.ErrCodeExternalService, "completion service unavailable", err)
	}

	var payload draftPayload
	if err := llm.ParseJSON(content, &payload); err != nil {
		telemetry.CaptureError(ctx, err)
		return Draft{
			Answer:    "",
			SelfLevel: domain.ConfidenceLow,
			SelfScore: malformedDraftConfidence,
			Reasoning: "Model returned unparseable output",
			Malformed: true,
		}, nil
	}

	level := domain.ConfidenceLevel(strings.ToLower(payload.Confidence))
	switch level {
	case domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow:
	default:
		level = domain.ConfidenceMedium
	}

	return Draft{
		Answer:    payload.Answer,
		SelfLevel: level,
		SelfScore: domain.ClampConfidence(payload.ConfidenceScore),
		Reasoning: payload.Reasoning,
	}, nil
}

func formatCitations(citations []domain.Citation) string {
	if len(citations) == 0 {
		return "No relevant citations found."
	}

	var b strings.Builder
	for i, c := range citations {
		fmt.Fprintf(&b, "\nCITATION %d:\n- Document: %s (ID: %s)\n- Relevance Score: %.2f\n- Excerpt: %q\n",
			i+1, c.DocTitle, c.DocID, c.RelevanceScore, c.Excerpt)
	}
	return b.String()
}
