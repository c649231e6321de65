package usecases

import (
	"context"

	"cwbridge/models"
)

// MentionUseCaseInterface defines the interface for answering Chatwork mentions
type MentionUseCaseInterface interface {
	ProcessMention(ctx context.Context, event models.MentionEvent) (*models.MentionOutcome, error)
}
