package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"promarket-server/internal/chat"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is the middleman between one websocket connection and the hub.
// Its identity comes from the verified handshake token, never from the
// peer's payloads.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	svc    *chat.Service
}

// readPump pumps events from the websocket connection into the chat
// service. It runs on the connection's own goroutine; on any read error the
// client unregisters from its room and the connection closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read error: %v", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("invalid event payload")
			continue
		}
		c.handleEvent(&env)
	}
}

// handleEvent dispatches one inbound event. Failures become a one-shot
// error event to this connection only and never close it.
func (c *Client) handleEvent(env *Envelope) {
	ctx := context.Background()

	switch env.Event {
	case EventJoin:
		// Already joined: the room binding happened at handshake using
		// the verified identity.

	case EventSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.ReceiverID == "" {
			c.sendError("send_message requires receiverId and content")
			return
		}

		msg, err := c.svc.SendMessage(ctx, c.userID, p.ReceiverID, p.Content)
		if err != nil {
			c.sendError(sendFailureReason(err))
			return
		}

		// Relay only after the store write is acknowledged.
		c.hub.SendToUser(msg.ReceiverID, mustEnvelope(EventNewMessage, msg))
		c.hub.SendToClient(c, mustEnvelope(EventMessageSent, msg))

	case EventMarkRead:
		var p MarkReadPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.SenderID == "" {
			c.sendError("mark_read requires senderId")
			return
		}

		if _, err := c.svc.MarkRead(ctx, p.SenderID, c.userID); err != nil {
			c.sendError("failed to mark messages as read")
			return
		}

		c.hub.SendToUser(p.SenderID, mustEnvelope(EventMessagesRead, ReadReceiptPayload{
			ReceiverID: c.userID,
			Timestamp:  time.Now(),
		}))

	default:
		c.sendError("unsupported event")
	}
}

// sendFailureReason maps a chat service error to the message shown to the
// sending connection. Policy denials keep their specific reason.
func sendFailureReason(err error) string {
	switch {
	case chat.IsPolicyDenial(err), err == chat.ErrEmptyContent, err == chat.ErrReceiverNotFound:
		return err.Error()
	default:
		return "failed to send message"
	}
}

// sendError routes through the hub so the run loop stays the only writer
// to the send channel; emitting to an already-dropped connection is a no-op
// instead of a panic.
func (c *Client) sendError(message string) {
	c.hub.SendToClient(c, mustEnvelope(EventError, ErrorPayload{Message: message}))
}

// writePump pumps payloads from the hub to the websocket connection and
// keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
