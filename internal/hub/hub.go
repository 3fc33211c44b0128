// internal/hub/hub.go
// Provides the Hub: client registry, router, and session lifecycle.
package hub

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/erilali/chat-relay/internal/auth"
	"github.com/erilali/chat-relay/internal/config"
	"github.com/erilali/chat-relay/internal/logger"
)

// ErrShutdownTimeout is returned when live sessions outlast the
// shutdown grace period.
var ErrShutdownTimeout = errors.New("hub shutdown timed out")

// Hub owns the client registry and routes every message between
// sessions. Routing is synchronous: each session routes from its own
// read loop, which preserves per-sender ordering end to end.
type Hub struct {
	registry *Registry
	resolver auth.Resolver
	events   *Events
	log      *logger.Logger

	server config.ServerConfig
	relay  config.RelayConfig

	allowedOrigins map[string]struct{} // empty = any origin
	upgrader       websocket.Upgrader

	startTime time.Time
	sessions  sync.WaitGroup

	mu              sync.Mutex
	closing         bool
	sessionsServed  int64
	authFailures    int64
	directRouted    int64
	broadcastRouted int64
	routingMisses   int64
	droppedSends    int64
	decodeErrors    int64
}

// NewHub wires a hub from configuration. events may be nil when no
// NATS tap is configured.
func NewHub(cfg *config.Config, resolver auth.Resolver, events *Events, log *logger.Logger) *Hub {
	h := &Hub{
		registry:       NewRegistry(),
		resolver:       resolver,
		events:         events,
		log:            log,
		server:         cfg.Server,
		relay:          cfg.Relay,
		allowedOrigins: normalizeOrigins(cfg.Server.AllowedOrigins),
		startTime:      time.Now(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	return h.registry.Len()
}

// Stats is a point-in-time snapshot of relay counters.
type Stats struct {
	ActiveClients    int      `json:"active_clients"`
	OnlineIdentities []string `json:"online_identities"`
	SessionsServed   int64    `json:"sessions_served"`
	AuthFailures     int64    `json:"auth_failures"`
	DirectRouted     int64    `json:"direct_routed"`
	BroadcastRouted  int64    `json:"broadcast_routed"`
	RoutingMisses    int64    `json:"routing_misses"`
	DroppedSends     int64    `json:"dropped_sends"`
	DecodeErrors     int64    `json:"decode_errors"`
	UptimeSeconds    int64    `json:"uptime_seconds"`
}

// Stats returns current relay counters.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		ActiveClients:    h.registry.Len(),
		OnlineIdentities: h.registry.Identities(),
		SessionsServed:   h.sessionsServed,
		AuthFailures:     h.authFailures,
		DirectRouted:     h.directRouted,
		BroadcastRouted:  h.broadcastRouted,
		RoutingMisses:    h.routingMisses,
		DroppedSends:     h.droppedSends,
		DecodeErrors:     h.decodeErrors,
		UptimeSeconds:    int64(time.Since(h.startTime).Seconds()),
	}
}

// Shutdown refuses new sessions, closes every registered outbox so
// write loops drain and finish, and waits up to timeout for all
// session goroutines to exit.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	for identity, out := range h.registry.Snapshot() {
		h.log.Debugf("Closing session for %s", identity)
		out.Close()
	}

	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("All sessions finished")
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func (h *Hub) isClosing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closing
}

// beginSession reserves a slot in the session WaitGroup unless the hub
// is draining. The check and the Add share the lock, so once Shutdown
// has set closing no new session can slip past its Wait.
func (h *Hub) beginSession() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.sessions.Add(1)
	return true
}

func (h *Hub) countSession() {
	h.mu.Lock()
	h.sessionsServed++
	h.mu.Unlock()
}

func (h *Hub) countAuthFailure() {
	h.mu.Lock()
	h.authFailures++
	h.mu.Unlock()
}

func (h *Hub) countDecodeError() {
	h.mu.Lock()
	h.decodeErrors++
	h.mu.Unlock()
}

func (h *Hub) countDirect() {
	h.mu.Lock()
	h.directRouted++
	h.mu.Unlock()
}

func (h *Hub) countBroadcast() {
	h.mu.Lock()
	h.broadcastRouted++
	h.mu.Unlock()
}

func (h *Hub) countRoutingMiss() {
	h.mu.Lock()
	h.routingMisses++
	h.mu.Unlock()
}

func (h *Hub) countDroppedSend() {
	h.mu.Lock()
	h.droppedSends++
	h.mu.Unlock()
}
