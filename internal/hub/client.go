// internal/hub/client.go
package hub

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/erilali/chat-relay/internal/auth"
	"github.com/erilali/chat-relay/internal/logger"
	"github.com/erilali/chat-relay/internal/message"
)

// Client is one authenticated WebSocket session.
type Client struct {
	Identity string
	Conn     *websocket.Conn
	Out      *Outbox

	hub *Hub
	log *logger.Logger

	closeOnce sync.Once
	removed   bool // whether teardown deleted this session's registry entry
}

// run registers the client, announces it, and drives the read and
// write loops until both finish. The departure announcement happens
// exactly once, after teardown, and only if this session still owned
// its registry entry.
func (c *Client) run() {
	if displaced := c.hub.registry.Insert(c.Identity, c.Out); displaced != nil {
		displaced.Close()
		c.log.Warnf("Displaced an existing session for %s", c.Identity)
	}
	c.hub.announceJoin(c.Identity)
	c.log.Infof("Client connected: %s", c.Identity)

	var g errgroup.Group
	g.Go(c.writeLoop)
	g.Go(c.readLoop)
	if err := g.Wait(); err != nil {
		c.log.Debugf("Session ended: %v", err)
	}

	if c.removed {
		c.hub.announceLeave(c.Identity)
		c.log.Infof("Client disconnected: %s", c.Identity)
	} else {
		c.log.Infof("Session for %s replaced by a newer connection", c.Identity)
	}
}

// teardown deregisters the client and releases the connection. Either
// loop may call it; only the first call acts, so the registry entry,
// outbox, and socket are closed exactly once.
func (c *Client) teardown() {
	c.closeOnce.Do(func() {
		c.removed = c.hub.registry.Remove(c.Identity, c.Out)
		c.Out.Close()
		c.Conn.Close()
	})
}

// readLoop consumes frames from the peer and routes them until the
// connection fails or closes. Malformed frames are logged and skipped;
// they never end the session.
func (c *Client) readLoop() error {
	defer c.teardown()

	c.Conn.SetReadDeadline(time.Now().Add(webSocketReadDeadline))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(webSocketReadDeadline))
		return nil
	})

	for {
		msgType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("WebSocket error for %s: %v", c.Identity, err)
				return err
			}
			return nil
		}
		if msgType != websocket.TextMessage {
			continue
		}

		chat, err := message.DecodeChat(data)
		if err != nil {
			c.hub.countDecodeError()
			c.log.Warnf("Malformed frame from %s: %v", c.Identity, err)
			if c.hub.relay.NotifyDecodeError {
				c.enqueueSystem(fmt.Sprintf("Invalid message format: %v", err))
			}
			continue
		}

		routed := message.ServerMessage{From: c.Identity, To: chat.To, Content: chat.Content}
		if !c.hub.Deliver(routed) && c.hub.relay.NotifyRoutingMiss {
			c.enqueueSystem(fmt.Sprintf("User '%s' not found or offline", *chat.To))
		}
		c.hub.events.PublishMessage(routed)
	}
}

// writeLoop drains the outbox to the peer and keeps the connection
// alive with pings. It exits after the outbox is closed and drained,
// or on the first write failure.
func (c *Client) writeLoop() error {
	ticker := time.NewTicker(webSocketPingPeriod)
	defer ticker.Stop()
	defer c.teardown()

	for {
		select {
		case <-c.Out.Ready():
			for {
				payload, ok := c.Out.Dequeue()
				if !ok {
					break
				}
				c.Conn.SetWriteDeadline(time.Now().Add(webSocketWriteDeadline))
				if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return err
				}
			}
			if c.Out.Closed() {
				c.Conn.SetWriteDeadline(time.Now().Add(webSocketWriteDeadline))
				c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(webSocketWriteDeadline))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// enqueueSystem queues a relay notice on this session's own outbox,
// bypassing the registry so it reaches this session even after a
// newer connection takes over the identity.
func (c *Client) enqueueSystem(text string) {
	to := c.Identity
	msg := message.ServerMessage{From: auth.ReservedIdentity, To: &to, Content: text}
	data, err := msg.Encode()
	if err != nil {
		c.log.Errorf("Failed to encode notice for %s: %v", c.Identity, err)
		return
	}
	c.Out.Enqueue(data)
}
