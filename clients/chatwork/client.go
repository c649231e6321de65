package chatwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cwbridge/clients"
	"cwbridge/core"
	"cwbridge/models"
)

const serviceName = "chatwork"

// tokenHeader carries the static API token on every Chatwork request
const tokenHeader = "X-ChatWorkToken"

// ChatworkClient implements the clients.ChatworkClient interface over the Chatwork REST API v2
type ChatworkClient struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

// NewChatworkClient creates a Chatwork client. baseURL is e.g. https://api.chatwork.com/v2
func NewChatworkClient(httpClient *http.Client, baseURL, apiToken string) clients.ChatworkClient {
	return &ChatworkClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
	}
}

// GetContacts fetches the contact list. Pagination is not handled: Chatwork returns the whole list.
func (c *ChatworkClient) GetContacts(ctx context.Context) ([]models.Contact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contacts", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create contacts request: %w", err)
	}
	req.Header.Set(tokenHeader, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewUpstreamError(serviceName, core.UpstreamKindTransport, fmt.Errorf("failed to fetch contacts: %w", err))
	}
	defer resp.Body.Close()

	// Chatwork answers 204 when the account has no contacts
	if resp.StatusCode == http.StatusNoContent {
		return []models.Contact{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "contacts request failed")
	}

	var contacts []models.Contact
	if err := json.NewDecoder(resp.Body).Decode(&contacts); err != nil {
		return nil, core.NewUpstreamError(serviceName, core.UpstreamKindDecode, fmt.Errorf("failed to decode contacts response: %w", err))
	}

	return contacts, nil
}

// PostMessage posts text into the given room as a form-encoded "body" field
func (c *ChatworkClient) PostMessage(
	ctx context.Context,
	roomID models.RoomID,
	text string,
) (*models.PostedMessage, error) {
	if roomID == "" {
		return nil, fmt.Errorf("room ID cannot be empty")
	}
	if text == "" {
		return nil, fmt.Errorf("message text cannot be empty")
	}

	data := url.Values{}
	data.Set("body", text)

	endpoint := fmt.Sprintf("%s/rooms/%s/messages", c.baseURL, url.PathEscape(roomID.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create post message request: %w", err)
	}
	req.Header.Set(tokenHeader, c.apiToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewUpstreamError(serviceName, core.UpstreamKindTransport, fmt.Errorf("failed to post message: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "post message request failed")
	}

	var posted models.PostedMessage
	if err := json.NewDecoder(resp.Body).Decode(&posted); err != nil {
		return nil, core.NewUpstreamError(serviceName, core.UpstreamKindDecode, fmt.Errorf("failed to decode post message response: %w", err))
	}

	return &posted, nil
}

func statusError(resp *http.Response, msg string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &core.UpstreamError{
		Service:    serviceName,
		Kind:       core.UpstreamKindStatus,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("%s: %s", msg, strings.TrimSpace(string(body))),
	}
}
