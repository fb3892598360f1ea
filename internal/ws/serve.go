package ws

import (
	"log"
	"net/http"
	"strings"

	"promarket-server/internal/chat"
	"promarket-server/internal/config"
	"promarket-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// newUpgrader restricts browser handshakes to the configured frontend
// origin, matching the CORS policy on the REST side. Requests without an
// Origin header (non-browser clients) are allowed through; they still have
// to present a valid token.
func newUpgrader(origin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			reqOrigin := r.Header.Get("Origin")
			return reqOrigin == "" || reqOrigin == origin
		},
	}
}

// ServeWS authenticates the handshake, upgrades the connection, binds it to
// the private room of the verified account and starts the pumps. An
// unverifiable token rejects the connection before it joins any room.
func ServeWS(hub *Hub, svc *chat.Service, cfg *config.Config, c *gin.Context) {
	token := ""
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			token = parts[1]
		}
	}
	// Browser websocket clients cannot set headers on the handshake.
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}

	claims, err := utils.ValidateToken(token, cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	upgrader := newUpgrader(cfg.Origin)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: claims.UserID,
		svc:    svc,
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}
