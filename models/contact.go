package models

// Contact is an entry of the Chatwork contact list (GET /contacts)
type Contact struct {
	AccountID      AccountID  `json:"account_id"`
	RoomID         RoomID     `json:"room_id"`
	Name           string     `json:"name"`
	ChatworkID     string     `json:"chatwork_id"`
	OrganizationID FlexibleID `json:"organization_id"`
	Department     string     `json:"department"`
	AvatarImageURL string     `json:"avatar_image_url"`
}

// PostedMessage is Chatwork's answer to POST /rooms/{room_id}/messages
type PostedMessage struct {
	MessageID string `json:"message_id"`
}
