package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockAPI) CreateCompletion(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, temperature, maxTokens)
	return args.String(0), args.Error(1)
}

func TestClient_GenerateEmbedding(t *testing.T) {
	api := new(MockAPI)
	client := NewClientWithAPI(api, 3)

	api.On("CreateEmbeddings", mock.Anything, "hello").Return([]float32{0.1, 0.2, 0.3}, nil)

	embedding, err := client.GenerateEmbedding(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
}

func TestClient_GenerateEmbedding_EmptyText(t *testing.T) {
	client := NewClientWithAPI(new(MockAPI), 3)

	_, err := client.GenerateEmbedding(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestClient_GenerateEmbedding_WrongDimensions(t *testing.T) {
	api := new(MockAPI)
	client := NewClientWithAPI(api, 1536)

	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return([]float32{0.1, 0.2}, nil)

	_, err := client.GenerateEmbedding(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestClient_GenerateEmbedding_ProviderFailure(t *testing.T) {
	api := new(MockAPI)
	client := NewClientWithAPI(api, 3)

	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	_, err := client.GenerateEmbedding(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create embedding")
}

func TestClient_Complete(t *testing.T) {
	api := new(MockAPI)
	client := NewClientWithAPI(api, 3)

	messages := []Message{
		{Role: RoleSystem, Content: "system"},
		{Role: RoleUser, Content: "user"},
	}
	api.On("CreateCompletion", mock.Anything, messages, float32(0.4), 1024).Return("answer", nil)

	content, err := client.Complete(context.Background(), messages, 0.4, 1024)

	require.NoError(t, err)
	assert.Equal(t, "answer", content)
}

func TestClient_Complete_NoMessages(t *testing.T) {
	client := NewClientWithAPI(new(MockAPI), 3)

	_, err := client.Complete(context.Background(), nil, 0.0, 100)

	assert.ErrorIs(t, err, ErrEmptyText)
}
