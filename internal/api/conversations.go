package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lexconnect/conversa/internal/model"
)

// Conversation is the metadata record for one consultation.
type Conversation struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Client    Participant `json:"client"`
	Lawyer    Participant `json:"lawyer"`
	CreatedAt string      `json:"created_at"`
}

// Participant identifies one party of a conversation.
type Participant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// messagesResponse is the paged history payload.
type messagesResponse struct {
	Messages []model.Message `json:"messages"`
	Total    int             `json:"total"`
}

// GetConversation fetches metadata for a conversation.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	var conv Conversation
	path := fmt.Sprintf("/api/v1/conversation/%s", url.PathEscape(conversationID))
	if err := c.get(ctx, path, nil, &conv); err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
	}
	return &conv, nil
}

// GetMessages fetches the history snapshot for a conversation, oldest
// first. A limit of 0 requests the server default page size.
func (c *Client) GetMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp messagesResponse
	path := fmt.Sprintf("/api/v1/conversation/%s/messages", url.PathEscape(conversationID))
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get messages for %s: %w", conversationID, err)
	}
	return resp.Messages, nil
}
