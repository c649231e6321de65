package completion

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompletionService is a mock implementation of the CompletionService interface
type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) Generate(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}
