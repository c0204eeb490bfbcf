package connection

import (
	"fmt"
	"net/url"

	"github.com/lexconnect/conversa/internal/model"
)

// Endpoint composes the conversation WebSocket URL from the REST base
// URL by scheme substitution (http→ws, https→wss).
func Endpoint(baseURL string, identity model.Identity) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// Already a WebSocket URL
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = "/api/v1/ws/conversation/" + identity.ConversationID
	u.RawPath = "/api/v1/ws/conversation/" + url.PathEscape(identity.ConversationID)
	u.RawQuery = url.Values{"token": {identity.Token}}.Encode()

	return u.String(), nil
}
