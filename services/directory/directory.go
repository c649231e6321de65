package directory

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"cwbridge/appctx"
	"cwbridge/clients"
	"cwbridge/models"
)

// DirectoryService looks up display names in the Chatwork contact list.
// The list is fetched on every call and never cached.
type DirectoryService struct {
	chatworkClient clients.ChatworkClient
}

func NewDirectoryService(chatworkClient clients.ChatworkClient) *DirectoryService {
	return &DirectoryService{chatworkClient: chatworkClient}
}

func (s *DirectoryService) ResolveName(ctx context.Context, accountID models.AccountID) (mo.Option[string], error) {
	requestID := appctx.GetRequestID(ctx)
	log.Printf("📋 [%s] Starting to resolve display name for account %s", requestID, accountID)

	if accountID == "" {
		return mo.None[string](), fmt.Errorf("account ID cannot be empty")
	}

	contacts, err := s.chatworkClient.GetContacts(ctx)
	if err != nil {
		log.Printf("❌ [%s] Failed to fetch contact list from Chatwork: %v", requestID, err)
		return mo.None[string](), fmt.Errorf("failed to fetch contacts: %w", err)
	}

	log.Printf("🔍 [%s] Fetched %d contacts from Chatwork", requestID, len(contacts))

	for _, contact := range contacts {
		if contact.AccountID == accountID {
			log.Printf("📋 [%s] Completed successfully - resolved account %s to %s", requestID, accountID, contact.Name)
			return mo.Some(contact.Name), nil
		}
	}

	log.Printf("⚠️ [%s] Account %s not found in contact list", requestID, accountID)
	return mo.None[string](), nil
}
