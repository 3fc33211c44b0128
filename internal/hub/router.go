// internal/hub/router.go
package hub

import (
	"fmt"

	"github.com/erilali/chat-relay/internal/auth"
	"github.com/erilali/chat-relay/internal/message"
)

// Deliver routes one message: to a single registered target when To is
// set, otherwise to every client except the sender. It reports false
// only when a direct target is not registered; undeliverable payloads
// are otherwise dropped silently.
func (h *Hub) Deliver(msg message.ServerMessage) bool {
	data, err := msg.Encode()
	if err != nil {
		h.log.Errorf("Failed to encode message from %s: %v", msg.From, err)
		return true
	}

	if msg.To != nil {
		return h.deliverDirect(msg.From, *msg.To, data)
	}
	h.deliverBroadcast(msg.From, data)
	return true
}

func (h *Hub) deliverDirect(from, to string, data []byte) bool {
	out, ok := h.registry.Lookup(to)
	if !ok {
		h.countRoutingMiss()
		h.log.Debugf("Message from %s to %s dropped: target offline", from, to)
		return false
	}
	if !out.Enqueue(data) {
		h.countDroppedSend()
		return true
	}
	h.countDirect()
	return true
}

func (h *Hub) deliverBroadcast(from string, data []byte) {
	for identity, out := range h.registry.Snapshot() {
		if identity == from {
			continue
		}
		if !out.Enqueue(data) {
			h.countDroppedSend()
		}
	}
	h.countBroadcast()
}

// AnnounceSystem broadcasts a relay announcement to every client. The
// reserved sender never matches a registered identity, so nobody is
// excluded from the fan-out.
func (h *Hub) AnnounceSystem(text string) {
	h.Deliver(message.ServerMessage{From: auth.ReservedIdentity, Content: text})
}

func (h *Hub) announceJoin(identity string) {
	h.AnnounceSystem(fmt.Sprintf("%s joined the chat", identity))
	h.events.PublishJoin(identity)
}

func (h *Hub) announceLeave(identity string) {
	h.AnnounceSystem(fmt.Sprintf("%s left the chat", identity))
	h.events.PublishLeave(identity)
}
