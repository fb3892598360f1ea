package ws

import (
	"encoding/json"
	"time"
)

// Event names form a fixed, enumerated protocol. Anything else arriving on
// a connection is answered with an error event to that connection only.
const (
	EventJoin         = "join"          // client→server, redundant: the room binding happens at handshake
	EventSendMessage  = "send_message"  // client→server {receiverId, content}
	EventMarkRead     = "mark_read"     // client→server {senderId}
	EventNewMessage   = "new_message"   // server→client, full message to the receiver's room
	EventMessageSent  = "message_sent"  // server→client, delivery ack echoed to the sender
	EventMessagesRead = "messages_read" // server→client, read receipt to the original sender
	EventError        = "error"         // server→client, sent only to the originator
)

// Envelope is the wire framing for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload is the body of a send_message event.
type SendMessagePayload struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// MarkReadPayload is the body of a mark_read event. The receiver side of
// the bulk update is always the authenticated connection, never taken from
// the payload.
type MarkReadPayload struct {
	SenderID string `json:"senderId"`
}

// ReadReceiptPayload is the body of a messages_read event.
type ReadReceiptPayload struct {
	ReceiverID string    `json:"receiverId"`
	Timestamp  time.Time `json:"timestamp"`
}

// ErrorPayload is the body of an error event.
type ErrorPayload struct {
	Message string `json:"message"`
}

func mustEnvelope(event string, data interface{}) []byte {
	raw, _ := json.Marshal(data)
	out, _ := json.Marshal(Envelope{Event: event, Data: raw})
	return out
}
