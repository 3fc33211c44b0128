// internal/message/message.go
// Wire types exchanged between clients and the relay, plus their codec.
package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Notice types the relay sends during the handshake.
const (
	TypeAuthSuccess = "auth_success"
	TypeAuthFailed  = "auth_failed"
)

// ErrMissingContent is returned when an inbound frame has no content field.
var ErrMissingContent = errors.New("missing content field")

// ErrMissingToken is returned when an auth frame has no token field.
var ErrMissingToken = errors.New("missing token field")

// AuthRequest is the first frame a client sends on a fresh connection.
type AuthRequest struct {
	Token string `json:"token"`
}

// ChatMessage is an inbound frame from an authenticated client.
// A nil To means broadcast.
type ChatMessage struct {
	To      *string `json:"to"`
	Content string  `json:"content"`
}

// ServerMessage is a routed frame delivered to clients. To is kept
// explicit (null on broadcast) so receivers can tell direct traffic
// from broadcast traffic.
type ServerMessage struct {
	From    string  `json:"from"`
	To      *string `json:"to"`
	Content string  `json:"content"`
}

// Notice is a control frame sent outside normal routing.
type Notice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AuthSuccessNotice confirms a completed handshake.
func AuthSuccessNotice() Notice {
	return Notice{Type: TypeAuthSuccess, Message: "Authenticated"}
}

// AuthFailedNotice rejects a handshake.
func AuthFailedNotice() Notice {
	return Notice{Type: TypeAuthFailed, Message: "Invalid token"}
}

// DecodeAuth parses the handshake frame. The token field is required.
func DecodeAuth(data []byte) (AuthRequest, error) {
	var raw struct {
		Token *string `json:"token"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return AuthRequest{}, fmt.Errorf("decode auth request: %w", err)
	}
	if raw.Token == nil {
		return AuthRequest{}, ErrMissingToken
	}
	return AuthRequest{Token: *raw.Token}, nil
}

// DecodeChat parses an inbound text frame. The content field is
// required; a missing or null to field means broadcast.
func DecodeChat(data []byte) (ChatMessage, error) {
	var raw struct {
		To      *string `json:"to"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ChatMessage{}, fmt.Errorf("decode chat message: %w", err)
	}
	if raw.Content == nil {
		return ChatMessage{}, ErrMissingContent
	}
	return ChatMessage{To: raw.To, Content: *raw.Content}, nil
}

// Encode serializes a routed frame.
func (m ServerMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Encode serializes a control notice.
func (n Notice) Encode() ([]byte, error) {
	return json.Marshal(n)
}
