package clients

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cwbridge/models"
)

// MockCompletionClient is a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionClient) Provider() string {
	args := m.Called()
	return args.String(0)
}

// MockChatworkClient is a mock implementation of ChatworkClient
type MockChatworkClient struct {
	mock.Mock
}

func (m *MockChatworkClient) GetContacts(ctx context.Context) ([]models.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contact), args.Error(1)
}

func (m *MockChatworkClient) PostMessage(
	ctx context.Context,
	roomID models.RoomID,
	text string,
) (*models.PostedMessage, error) {
	args := m.Called(ctx, roomID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostedMessage), args.Error(1)
}
