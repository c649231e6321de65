package notifier

import (
	"context"
	"fmt"
	"log"

	"cwbridge/appctx"
	"cwbridge/clients"
	"cwbridge/models"
)

type NotifierService struct {
	chatworkClient clients.ChatworkClient
}

func NewNotifierService(chatworkClient clients.ChatworkClient) *NotifierService {
	return &NotifierService{chatworkClient: chatworkClient}
}

// Post sends text into roomID
func (s *NotifierService) Post(ctx context.Context, roomID models.RoomID, text string) (*models.PostedMessage, error) {
	requestID := appctx.GetRequestID(ctx)
	log.Printf("📋 [%s] Starting to post message to Chatwork room %s", requestID, roomID)

	if roomID == "" {
		return nil, fmt.Errorf("room ID cannot be empty")
	}
	if text == "" {
		return nil, fmt.Errorf("message text cannot be empty")
	}

	posted, err := s.chatworkClient.PostMessage(ctx, roomID, text)
	if err != nil {
		log.Printf("❌ [%s] Failed to send message to Chatwork room %s: %v", requestID, roomID, err)
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	log.Printf("📋 [%s] Completed successfully - message %s sent to room %s: %q", requestID, posted.MessageID, roomID, text)
	return posted, nil
}
