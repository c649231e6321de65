package completion

import (
	"context"
	"fmt"
	"log"

	"cwbridge/appctx"
	"cwbridge/clients"
)

type CompletionService struct {
	client clients.CompletionClient
}

func NewCompletionService(client clients.CompletionClient) *CompletionService {
	return &CompletionService{client: client}
}

// Generate forwards message unchanged as a single-turn prompt
func (s *CompletionService) Generate(ctx context.Context, message string) (string, error) {
	requestID := appctx.GetRequestID(ctx)
	log.Printf("📋 [%s] Starting to generate completion via %s (%d chars)", requestID, s.client.Provider(), len(message))

	text, err := s.client.Complete(ctx, message)
	if err != nil {
		log.Printf("❌ [%s] Failed to fetch response from %s: %v", requestID, s.client.Provider(), err)
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	log.Printf("📋 [%s] Completed successfully - generated %d chars", requestID, len(text))
	return text, nil
}
