package models

const (
	// CompletionErrorText replaces the generated reply when the completion call fails
	CompletionErrorText = "An error occurred with OpenAI."
	// UnknownUserName replaces the sender's display name when it cannot be resolved
	UnknownUserName = "Unknown User"
)

// MentionOutcome describes what happened while answering one mention.
// The degraded flags record which steps fell back to a placeholder.
type MentionOutcome struct {
	Message          string
	GeneratedText    string
	DisplayName      string
	ReplyText        string
	CompletionFailed bool
	NameUnresolved   bool
	PostFailed       bool
	PostedMessageID  string
}

// Degraded reports whether any step fell back to a placeholder or failed silently
func (o *MentionOutcome) Degraded() bool {
	return o.CompletionFailed || o.NameUnresolved || o.PostFailed
}
