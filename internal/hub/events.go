// internal/hub/events.go
package hub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/erilali/chat-relay/internal/logger"
	"github.com/erilali/chat-relay/internal/message"
)

// Events publishes relay activity to NATS for external observers.
// Publishing is fire-and-forget; a nil Events or absent connection
// drops every event.
type Events struct {
	nc     *nats.Conn
	prefix string
	log    *logger.Logger
}

// NewEvents wraps an established NATS connection. nc may be nil.
func NewEvents(nc *nats.Conn, prefix string, log *logger.Logger) *Events {
	return &Events{nc: nc, prefix: prefix, log: log}
}

// PublishJoin emits a presence event for a client that came online.
func (e *Events) PublishJoin(identity string) {
	e.publish("presence.join", map[string]interface{}{
		"user":      identity,
		"timestamp": time.Now().Unix(),
	})
}

// PublishLeave emits a presence event for a client that went offline.
func (e *Events) PublishLeave(identity string) {
	e.publish("presence.leave", map[string]interface{}{
		"user":      identity,
		"timestamp": time.Now().Unix(),
	})
}

// PublishMessage emits a routing event. Broadcast messages carry an
// empty target.
func (e *Events) PublishMessage(msg message.ServerMessage) {
	target := ""
	if msg.To != nil {
		target = *msg.To
	}
	e.publish("messages", map[string]interface{}{
		"from":      msg.From,
		"to":        target,
		"content":   msg.Content,
		"timestamp": time.Now().Unix(),
	})
}

func (e *Events) publish(suffix string, payload map[string]interface{}) {
	if e == nil || e.nc == nil {
		return
	}
	subject := fmt.Sprintf("%s.%s", e.prefix, suffix)
	data, err := json.Marshal(payload)
	if err != nil {
		e.log.Errorf("Failed to marshal event data: %v", err)
		return
	}
	if err := e.nc.Publish(subject, data); err != nil {
		e.log.Errorf("Failed to publish event to NATS: %v", err)
	}
}
