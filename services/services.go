package services

import (
	"context"

	"github.com/samber/mo"

	"cwbridge/models"
)

// CompletionService generates reply text for a mention
type CompletionService interface {
	Generate(ctx context.Context, message string) (string, error)
}

// DirectoryService resolves Chatwork account ids to display names.
// None means the account is not in the contact list; an error means the lookup itself failed.
type DirectoryService interface {
	ResolveName(ctx context.Context, accountID models.AccountID) (mo.Option[string], error)
}

// NotifierService posts messages into Chatwork rooms
type NotifierService interface {
	Post(ctx context.Context, roomID models.RoomID, text string) (*models.PostedMessage, error)
}
