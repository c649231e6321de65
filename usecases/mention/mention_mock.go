package mention

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cwbridge/models"
)

// MockMentionUseCase is a mock implementation of usecases.MentionUseCaseInterface
type MockMentionUseCase struct {
	mock.Mock
}

func (m *MockMentionUseCase) ProcessMention(ctx context.Context, event models.MentionEvent) (*models.MentionOutcome, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentionOutcome), args.Error(1)
}
