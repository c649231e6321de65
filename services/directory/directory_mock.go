package directory

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"cwbridge/models"
)

// MockDirectoryService is a mock implementation of the DirectoryService interface
type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) ResolveName(ctx context.Context, accountID models.AccountID) (mo.Option[string], error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(mo.Option[string]), args.Error(1)
}
