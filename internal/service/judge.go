package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/llm"
)

// AnswerabilityPenalty is multiplied into the confidence when evidence is
// merely topically related, or when the judge cannot be reached.
const AnswerabilityPenalty = 0.5

const (
	judgeMaxTokens   = 150
	judgeTemperature = 0.0
	judgeTopEvidence = 3
	judgeExcerptMax  = 600
)

const answerabilityPrompt = `You are a critical evaluator for a security questionnaire system. Your job is to determine if retrieved evidence ACTUALLY ANSWERS a question, or if it is merely TOPICALLY RELATED.

**ANSWERS** = The evidence contains specific information that directly addresses what the question is asking. Someone reading this evidence would know the answer.

**RELATED** = The evidence mentions similar topics, keywords, or concepts, but does NOT contain the specific information needed to answer the question.

Examples:
- Question about encryption algorithm; evidence states "data at rest is encrypted with AES-256" -> ANSWERS.
- Question about password rotation policy; evidence describes MFA enforcement -> RELATED (similar topic, wrong specific).
- Question about SOC 2 certification; evidence confirms a current SOC 2 Type II report -> ANSWERS.
- Question about retention periods; evidence covers data classification only -> RELATED.

QUESTION: %s

EVIDENCE:
%s

Respond with EXACTLY ONE line in one of these formats:
- ANSWERS: [one sentence explaining what specific information in the evidence answers the question]
- RELATED: [one sentence explaining why this is topically related but does not actually answer the question]`

// CompletionClient is the LLM surface the judge, citation extractor, and
// drafter depend on.
type CompletionClient interface {
	Complete(ctx context.Context, messages []llm.Message, temperature float32, maxTokens int) (string, error)
}

// Verdict is the judge's assessment of retrieved evidence.
type Verdict struct {
	Answers   bool
	Reasoning string
}

// AnswerabilityJudge asks the model whether evidence actually answers the
// question. This is the check that keeps topically-similar retrieval from
// turning into a confident wrong answer.
type AnswerabilityJudge struct {
	client CompletionClient
}

func NewAnswerabilityJudge(client CompletionClient) *AnswerabilityJudge {
	return &AnswerabilityJudge{client: client}
}

// Judge evaluates the top evidence against the question. A judge call
// failure is returned as an error; callers treat it as indeterminate and
// apply the penalty rather than failing the question.
func (j *AnswerabilityJudge) Judge(ctx context.Context, question string, evidence []domain.Evidence) (Verdict, error) {
	if len(evidence) == 0 {
		return Verdict{Answers: false, Reasoning: "No evidence available"}, nil
	}

	n := len(evidence)
	if n > judgeTopEvidence {
		n = judgeTopEvidence
	}
	blocks := make([]string, 0, n)
	for _, e := range evidence[:n] {
		section := e.Section
		if section == "" {
			section = "General"
		}
		text := e.Text
		if len(text) > judgeExcerptMax {
			text = text[:judgeExcerptMax]
		}
		blocks = append(blocks, fmt.Sprintf("[%s - %s]\n%s", e.SourceTitle, section, text))
	}

	prompt := fmt.Sprintf(answerabilityPrompt, question, strings.Join(blocks, "\n\n---\n\n"))

	content, err := j.client.Complete(ctx,
		[]llm.Message{{Role: llm.RoleUser, Content: prompt}},
		judgeTemperature, judgeMaxTokens,
	)
	if err != nil {
		return Verdict{}, err
	}

	return parseVerdict(content), nil
}

// parseVerdict reads the ANSWERS/RELATED prefix protocol. Anything that
// does not start with ANSWERS counts as related.
func parseVerdict(content string) Verdict {
	result := strings.TrimSpace(content)
	answers := strings.HasPrefix(strings.ToUpper(result), "ANSWERS")

	reasoning := result
	if idx := strings.Index(result, ":"); idx >= 0 {
		reasoning = strings.TrimSpace(result[idx+1:])
	}

	return Verdict{Answers: answers, Reasoning: reasoning}
}
