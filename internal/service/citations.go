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
	citationTemperature = 0.3
	citationMaxTokens   = 1024
)

const citationSystemPrompt = `You are a citation analyst for security questionnaires.

Analyze the context documents and find the excerpts relevant to the question.

GUIDELINES:
1. Only cite documents that are directly relevant to the question
2. Extract specific excerpts, not entire documents
3. Assign a relevance score (0.0-1.0) for how well the excerpt addresses the question
4. If no relevant context exists, return an empty citations array
5. Prioritize quality over quantity

Output JSON:
{
    "citations": [
        {
            "doc_id": "document_id",
            "doc_title": "Document Title",
            "relevant_excerpt": "The specific text excerpt that is relevant",
            "relevance_score": 0.85
        }
    ]
}`

type citationPayload struct {
	Citations []struct {
		DocID           string  `json:"doc_id"`
		DocTitle        string  `json:"doc_title"`
		RelevantExcerpt string  `json:"relevant_excerpt"`
		RelevanceScore  float64 `json:"relevance_score"`
	} `json:"citations"`
}

// CitationExtractor asks the model to pull question-relevant excerpts out
// of candidate documents. Citations naming a doc_id that was never
// supplied are discarded.
type CitationExtractor struct {
	client CompletionClient
}

func NewCitationExtractor(client CompletionClient) *CitationExtractor {
	return &CitationExtractor{client: client}
}

// Extract returns citations for the question drawn from docs. An empty
// docs slice short-circuits to no citations without a model call.
func (e *CitationExtractor) Extract(ctx context.Context, q domain.Question, docs []domain.ContextDocument) ([]domain.Citation, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "CitationExtractor.Extract", telemetry.SpanAttributes{
		QuestionID: q.ID,
		Operation:  "citation_extract",
	})
	defer span.End()

	userPrompt := fmt.Sprintf(`Find relevant citations from the context documents for the following question:

QUESTION ID: %s
QUESTION: %s
CATEGORY: %s

CONTEXT DOCUMENTS:
%s

Analyze the documents and provide citations in JSON format.`,
		q.ID, q.Text, categoryOrGeneral(q.Category), formatContextDocs(docs))

	content, err := e.client.Complete(ctx,
		[]llm.Message{
			{Role: llm.RoleSystem, Content: citationSystemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		citationTemperature, citationMaxTokens,
	)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeExternalService, "completion service unavailable", err)
	}

	var payload citationPayload
	if err := llm.ParseJSON(content, &payload); err != nil {
		span.SetError(err)
		return nil, err
	}

	known := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		known[d.DocID] = struct{}{}
	}

	citations := make([]domain.Citation, 0, len(payload.Citations))
	for _, c := range payload.Citations {
		if _, ok := known[c.DocID]; !ok {
			telemetry.AddBreadcrumb(ctx, "citations", "discarded citation for unknown doc_id "+c.DocID)
			continue
		}
		citations = append(citations, domain.Citation{
			DocID:          c.DocID,
			DocTitle:       c.DocTitle,
			Excerpt:        c.RelevantExcerpt,
			RelevanceScore: c.RelevanceScore,
		})
	}

	return citations, nil
}

func formatContextDocs(docs []domain.ContextDocument) string {
	var b strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&b, "\n--- DOCUMENT ---\nID: %s\nTitle: %s\nSource: %s\nContent:\n%s\n--- END DOCUMENT ---\n",
			d.DocID, d.Title, d.Source, d.Content)
	}
	return b.String()
}

func categoryOrGeneral(c domain.Category) string {
	if c == "" {
		return "General"
	}
	return string(c)
}
