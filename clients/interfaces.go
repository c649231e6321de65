package clients

import (
	"context"

	"cwbridge/models"
)

// CompletionClient sends a single-turn prompt to a text-completion provider
type CompletionClient interface {
	// Complete returns the text of the first completion, or an *core.UpstreamError
	Complete(ctx context.Context, prompt string) (string, error)
	// Provider names the backing API, used in logs
	Provider() string
}

// ChatworkClient defines the Chatwork REST operations the bridge needs
type ChatworkClient interface {
	// GetContacts fetches the full contact list of the bot account in one call
	GetContacts(ctx context.Context) ([]models.Contact, error)
	// PostMessage posts text into a room
	PostMessage(ctx context.Context, roomID models.RoomID, text string) (*models.PostedMessage, error)
}
