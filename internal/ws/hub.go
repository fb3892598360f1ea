package ws

import "log"

// delivery targets one account's private room.
type delivery struct {
	userID  string
	payload []byte
}

// clientDelivery targets one specific connection (acks and error events).
type clientDelivery struct {
	client  *Client
	payload []byte
}

// Hub owns the room membership table: account id -> set of active
// connections. The map is process-local and mutated only by the run loop,
// so no locking is needed; connect and disconnect are the only mutators
// and nothing outside this package ever sees the map.
//
// The run loop is also the only goroutine that writes to or closes a
// client's send channel; connection goroutines emit through SendToUser
// and SendToClient instead of touching the channel themselves.
type Hub struct {
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	direct     chan clientDelivery
}

// NewHub creates a hub. Call Run in its own goroutine before serving
// connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		direct:     make(chan clientDelivery, 256),
	}
}

// Run is the loop that manages room state. It is the only goroutine that
// touches h.clients or a client's send channel.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if _, ok := h.clients[c.userID]; !ok {
				h.clients[c.userID] = make(map[*Client]bool)
			}
			h.clients[c.userID][c] = true
			log.Printf("ws: client joined room %s", c.userID)

		case c := <-h.unregister:
			h.drop(c)

		case d := <-h.deliver:
			for c := range h.clients[d.userID] {
				h.trySend(c, d.payload)
			}

		case d := <-h.direct:
			if conns, ok := h.clients[d.client.userID]; ok && conns[d.client] {
				h.trySend(d.client, d.payload)
			}
		}
	}
}

// trySend enqueues a payload on one registered connection without ever
// blocking the run loop. A connection whose buffer is full is a slow
// consumer and gets dropped; it recovers missed events over REST like any
// other reconnect.
func (h *Hub) trySend(c *Client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.drop(c)
	}
}

// drop removes a connection from its room and closes its send channel.
// Safe to call twice; only the first call closes.
func (h *Hub) drop(c *Client) {
	conns, ok := h.clients[c.userID]
	if !ok || !conns[c] {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	log.Printf("ws: client left room %s", c.userID)
}

// SendToUser enqueues a payload for every active connection in the given
// account's private room. No-op when the room is empty.
func (h *Hub) SendToUser(userID string, payload []byte) {
	h.deliver <- delivery{userID: userID, payload: payload}
}

// SendToClient enqueues a payload for one specific connection. Dropped
// silently if the connection has already left its room.
func (h *Hub) SendToClient(c *Client, payload []byte) {
	h.direct <- clientDelivery{client: c, payload: payload}
}
