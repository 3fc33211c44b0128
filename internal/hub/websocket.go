// internal/hub/websocket.go
package hub

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/erilali/chat-relay/internal/message"
)

const (
	webSocketReadDeadline  = 60 * time.Second
	webSocketWriteDeadline = 10 * time.Second
	webSocketPingPeriod    = (webSocketReadDeadline * 9) / 10 // Must be less than readDeadline
	webSocketAuthDeadline  = 30 * time.Second
)

// ServeWs upgrades the HTTP connection and runs the session through
// authentication, registration, and the client loops.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	if h.isClosing() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	// Header credentials are resolved before the upgrade so a bad
	// token fails with a plain 401.
	identity := ""
	preauth := false
	if token, ok := bearerToken(r); ok {
		id, err := h.resolver.Resolve(token)
		if err != nil {
			h.countAuthFailure()
			h.log.Warnf("Rejected connection from %s: invalid bearer token", r.RemoteAddr)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		identity = id
		preauth = true
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	// Shutdown may have started during the handshake.
	if !h.beginSession() {
		conn.Close()
		return
	}
	go func() {
		defer h.sessions.Done()
		h.runSession(conn, identity, preauth)
	}()
}

// runSession completes the handshake and hands the connection to a
// client session. Every failure path closes the connection.
func (h *Hub) runSession(conn *websocket.Conn, identity string, preauth bool) {
	sessionID := uuid.NewString()
	log := h.log.WithField("session_id", sessionID)

	conn.SetReadLimit(h.server.ReadLimit)

	if !preauth {
		id, err := h.authenticate(conn)
		if err != nil {
			h.countAuthFailure()
			log.Warnf("Authentication failed: %v", err)
			h.writeNotice(conn, message.AuthFailedNotice())
			conn.Close()
			return
		}
		identity = id
	}

	if err := h.writeNotice(conn, message.AuthSuccessNotice()); err != nil {
		log.Warnf("Failed to confirm authentication: %v", err)
		conn.Close()
		return
	}

	h.countSession()
	client := &Client{
		Identity: identity,
		Conn:     conn,
		Out:      NewOutbox(h.relay.OutboxCapacity),
		hub:      h,
		log:      log.WithField("user", identity),
	}
	client.run()
}

// authenticate reads the client's first frame and resolves the token
// it carries. The handshake is exactly one frame; anything that is not
// a text credential frame rejects the session.
func (h *Hub) authenticate(conn *websocket.Conn) (string, error) {
	conn.SetReadDeadline(time.Now().Add(webSocketAuthDeadline))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("read auth frame: %w", err)
	}
	if msgType != websocket.TextMessage {
		return "", fmt.Errorf("auth frame must be text, got message type %d", msgType)
	}
	req, err := message.DecodeAuth(data)
	if err != nil {
		return "", err
	}
	return h.resolver.Resolve(req.Token)
}

// writeNotice sends a control notice outside the outbox path. Only
// used during the handshake, before the write loop exists.
func (h *Hub) writeNotice(conn *websocket.Conn, n message.Notice) error {
	data, err := n.Encode()
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(webSocketWriteDeadline))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// bearerToken extracts a credential from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):]), true
	}
	return "", false
}

// normalizeOrigins parses configured origins into a lowercase
// scheme://host set. Invalid entries are skipped.
func normalizeOrigins(origins []string) map[string]struct{} {
	set := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		normalized, ok := normalizeOrigin(strings.TrimSpace(origin))
		if !ok {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

// checkOrigin admits requests from configured origins. An empty allow
// list accepts any origin; requests without an Origin header come from
// non-browser clients and pass.
func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	_, exists := h.allowedOrigins[normalized]
	return exists
}
