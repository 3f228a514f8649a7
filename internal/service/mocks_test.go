package service

import (
	"context"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockCompletionClient is a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, messages []llm.Message, temperature float32, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, temperature, maxTokens)
	return args.String(0), args.Error(1)
}

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockVerifiedAnswerStore is a mock implementation of VerifiedAnswerStore
type MockVerifiedAnswerStore struct {
	mock.Mock
}

func (m *MockVerifiedAnswerStore) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.VerifiedAnswer, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerifiedAnswer), args.Error(1)
}

func (m *MockVerifiedAnswerStore) SearchNearest(ctx context.Context, embedding []float32) (*domain.VerifiedAnswer, float64, error) {
	args := m.Called(ctx, embedding)
	if args.Get(0) == nil {
		return nil, args.Get(1).(float64), args.Error(2)
	}
	return args.Get(0).(*domain.VerifiedAnswer), args.Get(1).(float64), args.Error(2)
}

func (m *MockVerifiedAnswerStore) Upsert(ctx context.Context, rec *domain.VerifiedAnswer) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockChunkSearcher is a mock implementation of ChunkSearcher
type MockChunkSearcher struct {
	mock.Mock
}

func (m *MockChunkSearcher) Search(ctx context.Context, embedding []float32, limit int) ([]domain.Evidence, error) {
	args := m.Called(ctx, embedding, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Evidence), args.Error(1)
}

// MockEmployeeDirectory is a mock implementation of EmployeeDirectory
type MockEmployeeDirectory struct {
	mock.Mock
}

func (m *MockEmployeeDirectory) FindByExpertiseOrDepartment(ctx context.Context, term string) (*domain.Employee, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeDirectory) FindByDepartment(ctx context.Context, department string) (*domain.Employee, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeDirectory) FindSecurityFallback(ctx context.Context) (*domain.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

// MockAnswerCache is a mock implementation of AnswerCacheInterface
type MockAnswerCache struct {
	mock.Mock
}

func (m *MockAnswerCache) Lookup(ctx context.Context, fingerprint, text string) (*domain.VerifiedAnswer, error) {
	args := m.Called(ctx, fingerprint, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerifiedAnswer), args.Error(1)
}

func (m *MockAnswerCache) Promote(ctx context.Context, text, approvedAnswer, evidenceSource string) (string, error) {
	args := m.Called(ctx, text, approvedAnswer, evidenceSource)
	return args.String(0), args.Error(1)
}

// MockEvidenceRetriever is a mock implementation of EvidenceRetrieverInterface
type MockEvidenceRetriever struct {
	mock.Mock
}

func (m *MockEvidenceRetriever) Retrieve(ctx context.Context, question string) ([]domain.Evidence, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Evidence), args.Error(1)
}

// MockAnswerabilityJudge is a mock implementation of AnswerabilityJudgeInterface
type MockAnswerabilityJudge struct {
	mock.Mock
}

func (m *MockAnswerabilityJudge) Judge(ctx context.Context, question string, evidence []domain.Evidence) (Verdict, error) {
	args := m.Called(ctx, question, evidence)
	return args.Get(0).(Verdict), args.Error(1)
}

// MockCitationExtractor is a mock implementation of CitationExtractorInterface
type MockCitationExtractor struct {
	mock.Mock
}

func (m *MockCitationExtractor) Extract(ctx context.Context, q domain.Question, docs []domain.ContextDocument) ([]domain.Citation, error) {
	args := m.Called(ctx, q, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Citation), args.Error(1)
}

// MockAnswerDrafter is a mock implementation of AnswerDrafterInterface
type MockAnswerDrafter struct {
	mock.Mock
}

func (m *MockAnswerDrafter) DraftAnswer(ctx context.Context, q domain.Question, citations []domain.Citation) (Draft, error) {
	args := m.Called(ctx, q, citations)
	return args.Get(0).(Draft), args.Error(1)
}
