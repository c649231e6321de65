package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cwbridge/core"
)

// EventTypeMentionToMe is the Chatwork webhook event type sent when the bot account is mentioned
const EventTypeMentionToMe = "mention_to_me"

// FlexibleID is a Chatwork identifier that may arrive as a JSON number or a JSON string.
// It is always kept in its decimal string form.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a number or string: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}

// AccountID identifies a Chatwork account
type AccountID = FlexibleID

// RoomID identifies a Chatwork room
type RoomID = FlexibleID

// ChatworkWebhookPayload is the envelope Chatwork posts to the webhook URL.
// Fields are pointers so that absent keys can be told apart from empty values.
type ChatworkWebhookPayload struct {
	WebhookSettingID *string               `json:"webhook_setting_id,omitempty"`
	WebhookEventType *string               `json:"webhook_event_type"`
	WebhookEventTime *int64                `json:"webhook_event_time,omitempty"`
	WebhookEvent     *ChatworkWebhookEvent `json:"webhook_event"`
}

// ChatworkWebhookEvent is the nested event body of a Chatwork webhook
type ChatworkWebhookEvent struct {
	FromAccountID *AccountID `json:"from_account_id"`
	ToAccountID   *AccountID `json:"to_account_id,omitempty"`
	RoomID        *RoomID    `json:"room_id"`
	MessageID     *string    `json:"message_id,omitempty"`
	Body          *string    `json:"body"`
	SendTime      *int64     `json:"send_time,omitempty"`
	UpdateTime    *int64     `json:"update_time,omitempty"`
}

// Validate checks the fields every event needs: the event type and the message body
func (p *ChatworkWebhookPayload) Validate() error {
	if p.WebhookEventType == nil {
		return fmt.Errorf("webhook_event_type is missing: %w", core.ErrInvalidPayload)
	}
	if p.WebhookEvent == nil {
		return fmt.Errorf("webhook_event is missing: %w", core.ErrInvalidPayload)
	}
	if p.WebhookEvent.Body == nil {
		return fmt.Errorf("webhook_event.body is missing: %w", core.ErrInvalidPayload)
	}
	return nil
}

// ValidateMention checks the additional fields needed to answer a mention
func (p *ChatworkWebhookPayload) ValidateMention() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.WebhookEvent.FromAccountID == nil {
		return fmt.Errorf("webhook_event.from_account_id is missing: %w", core.ErrInvalidPayload)
	}
	if p.WebhookEvent.RoomID == nil || *p.WebhookEvent.RoomID == "" {
		return fmt.Errorf("webhook_event.room_id is missing: %w", core.ErrInvalidPayload)
	}
	return nil
}

// EventType returns the event type, or "" when absent
func (p *ChatworkWebhookPayload) EventType() string {
	if p.WebhookEventType == nil {
		return ""
	}
	return *p.WebhookEventType
}

// MentionEvent is the validated, flattened form of a mention webhook handed to the use case
type MentionEvent struct {
	FromAccountID AccountID
	RoomID        RoomID
	Body          string
	Message       string
}

// ToMentionEvent flattens a validated payload. Message is the body with its addressing prefix removed.
func (p *ChatworkWebhookPayload) ToMentionEvent(message string) (MentionEvent, error) {
	if err := p.ValidateMention(); err != nil {
		return MentionEvent{}, err
	}
	return MentionEvent{
		FromAccountID: *p.WebhookEvent.FromAccountID,
		RoomID:        *p.WebhookEvent.RoomID,
		Body:          *p.WebhookEvent.Body,
		Message:       message,
	}, nil
}
