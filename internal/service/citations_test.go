package service

import (
	"context"
	"testing"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCitationExtractor_EmptyDocsSkipsModelCall(t *testing.T) {
	client := new(MockCompletionClient)
	e := NewCitationExtractor(client)

	citations, err := e.Extract(context.Background(), domain.Question{ID: "q1", Text: "q"}, nil)

	require.NoError(t, err)
	assert.Empty(t, citations)
	client.AssertNotCalled(t, "Complete")
}

func TestCitationExtractor_DiscardsFabricatedDocIDs(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything, float32(0.3), citationMaxTokens).
		Return(`{"citations": [
			{"doc_id": "encryption_policy", "doc_title": "Encryption Policy", "relevant_excerpt": "AES-256 at rest", "relevance_score": 0.9},
			{"doc_id": "made_up_doc", "doc_title": "Imaginary", "relevant_excerpt": "hallucinated", "relevance_score": 0.95}
		]}`, nil)

	e := NewCitationExtractor(client)
	citations, err := e.Extract(context.Background(),
		domain.Question{ID: "q1", Text: "Do you encrypt data at rest?"},
		[]domain.ContextDocument{{DocID: "encryption_policy", Title: "Encryption Policy", Content: "AES-256 at rest"}},
	)

	require.NoError(t, err)
	require.Len(t, citations, 1)
	assert.Equal(t, "encryption_policy", citations[0].DocID)
}

func TestCitationExtractor_MalformedResponse(t *testing.T) {
	client := new(MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("not json", nil)

	e := NewCitationExtractor(client)
	_, err := e.Extract(context.Background(),
		domain.Question{ID: "q1", Text: "q"},
		[]domain.ContextDocument{{DocID: "d1", Title: "T", Content: "c"}},
	)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeMalformedResponse, domainErr.Code)
}
