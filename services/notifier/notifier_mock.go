package notifier

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cwbridge/models"
)

// MockNotifierService is a mock implementation of the NotifierService interface
type MockNotifierService struct {
	mock.Mock
}

func (m *MockNotifierService) Post(ctx context.Context, roomID models.RoomID, text string) (*models.PostedMessage, error) {
	args := m.Called(ctx, roomID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostedMessage), args.Error(1)
}
