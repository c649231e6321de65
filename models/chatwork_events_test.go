package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwbridge/core"
)

func TestFlexibleID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected FlexibleID
		wantErr  bool
	}{
		{name: "integer", input: `1234567`, expected: "1234567"},
		{name: "string", input: `"1234567"`, expected: "1234567"},
		{name: "string with spaces", input: `" 42 "`, expected: "42"},
		{name: "large integer keeps precision", input: `9007199254740993`, expected: "9007199254740993"},
		{name: "null leaves value empty", input: `null`, expected: ""},
		{name: "object is rejected", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id FlexibleID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestChatworkWebhookPayload_Validate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantErr        bool
		wantMentionErr bool
	}{
		{
			name:    "complete mention",
			body:    `{"webhook_event_type":"mention_to_me","webhook_event":{"body":"[To:1]hi","from_account_id":2,"room_id":3}}`,
			wantErr: false,
		},
		{
			name:           "missing event type",
			body:           `{"webhook_event":{"body":"hi","from_account_id":2,"room_id":3}}`,
			wantErr:        true,
			wantMentionErr: true,
		},
		{
			name:           "missing webhook_event",
			body:           `{"webhook_event_type":"mention_to_me"}`,
			wantErr:        true,
			wantMentionErr: true,
		},
		{
			name:           "missing body",
			body:           `{"webhook_event_type":"mention_to_me","webhook_event":{"from_account_id":2,"room_id":3}}`,
			wantErr:        true,
			wantMentionErr: true,
		},
		{
			name:           "missing sender only fails mention validation",
			body:           `{"webhook_event_type":"message_created","webhook_event":{"body":"hi","room_id":3}}`,
			wantErr:        false,
			wantMentionErr: true,
		},
		{
			name:           "missing room only fails mention validation",
			body:           `{"webhook_event_type":"mention_to_me","webhook_event":{"body":"hi","from_account_id":2}}`,
			wantErr:        false,
			wantMentionErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload ChatworkWebhookPayload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &payload))

			err := payload.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidPayload)
			} else {
				assert.NoError(t, err)
			}

			err = payload.ValidateMention()
			if tt.wantErr || tt.wantMentionErr {
				assert.ErrorIs(t, err, core.ErrInvalidPayload)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChatworkWebhookPayload_ToMentionEvent(t *testing.T) {
	var payload ChatworkWebhookPayload
	body := `{"webhook_event_type":"mention_to_me","webhook_event":{"body":"[To:1234567]Hello there","from_account_id":42,"room_id":"99"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	event, err := payload.ToMentionEvent("Hello there")
	require.NoError(t, err)
	assert.Equal(t, AccountID("42"), event.FromAccountID)
	assert.Equal(t, RoomID("99"), event.RoomID)
	assert.Equal(t, "[To:1234567]Hello there", event.Body)
	assert.Equal(t, "Hello there", event.Message)
	assert.Equal(t, EventTypeMentionToMe, payload.EventType())
}

func TestMentionOutcome_Degraded(t *testing.T) {
	assert.False(t, (&MentionOutcome{}).Degraded())
	assert.True(t, (&MentionOutcome{NameUnresolved: true}).Degraded())
	assert.True(t, (&MentionOutcome{PostFailed: true}).Degraded())
	assert.True(t, (&MentionOutcome{CompletionFailed: true}).Degraded())
}
