package mention

import (
	"context"
	"fmt"
	"log"

	"cwbridge/appctx"
	"cwbridge/models"
	"cwbridge/services"
	"cwbridge/utils"
)

// MentionUseCase answers a mention: generate, resolve the sender, format, post.
// Upstream failures never abort the flow; each one degrades to a placeholder
// and is recorded on the returned outcome.
type MentionUseCase struct {
	completionService services.CompletionService
	directoryService  services.DirectoryService
	notifierService   services.NotifierService
}

func NewMentionUseCase(
	completionService services.CompletionService,
	directoryService services.DirectoryService,
	notifierService services.NotifierService,
) *MentionUseCase {
	return &MentionUseCase{
		completionService: completionService,
		directoryService:  directoryService,
		notifierService:   notifierService,
	}
}

// ProcessMention returns an error only when the request context is already done
func (u *MentionUseCase) ProcessMention(ctx context.Context, event models.MentionEvent) (*models.MentionOutcome, error) {
	requestID := appctx.GetRequestID(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("request %s cancelled before processing: %w", requestID, err)
	}

	log.Printf("📨 [%s] Processing mention from %s in room %s: %q", requestID, event.FromAccountID, event.RoomID, event.Message)

	outcome := &models.MentionOutcome{Message: event.Message}

	generated, err := u.completionService.Generate(ctx, event.Message)
	if err != nil {
		log.Printf("⚠️ [%s] Completion failed, replying with placeholder: %v", requestID, err)
		generated = models.CompletionErrorText
		outcome.CompletionFailed = true
	}
	outcome.GeneratedText = generated
	log.Printf("🤖 [%s] Generated response: %q", requestID, generated)

	displayName := models.UnknownUserName
	maybeName, err := u.directoryService.ResolveName(ctx, event.FromAccountID)
	switch {
	case err != nil:
		log.Printf("⚠️ [%s] Name lookup failed for %s: %v", requestID, event.FromAccountID, err)
		outcome.NameUnresolved = true
	case !maybeName.IsPresent():
		log.Printf("⚠️ [%s] Account %s is not a contact", requestID, event.FromAccountID)
		outcome.NameUnresolved = true
	default:
		displayName = maybeName.MustGet()
	}
	outcome.DisplayName = displayName
	log.Printf("🔍 [%s] Fetched username: %s", requestID, displayName)

	outcome.ReplyText = utils.FormatReply(event.FromAccountID.String(), displayName, generated)

	posted, err := u.notifierService.Post(ctx, event.RoomID, outcome.ReplyText)
	if err != nil {
		log.Printf("⚠️ [%s] Reply was not delivered to room %s: %v", requestID, event.RoomID, err)
		outcome.PostFailed = true
	} else {
		outcome.PostedMessageID = posted.MessageID
	}

	if outcome.Degraded() {
		log.Printf("⚠️ [%s] Mention handled in degraded mode (completion failed: %t, name unresolved: %t, post failed: %t)",
			requestID, outcome.CompletionFailed, outcome.NameUnresolved, outcome.PostFailed)
	} else {
		log.Printf("✅ [%s] Mention answered with message %s", requestID, outcome.PostedMessageID)
	}

	return outcome, nil
}
