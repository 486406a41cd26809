package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler upgrades authorized requests to websocket subscriptions
type Handler struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	sendBuffer int
	logger     zerolog.Logger
}

// NewHandler creates a new websocket Handler. An empty allowedOrigins list, or one containing "*", accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string, sendBuffer int, logger zerolog.Logger) *Handler {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// Serve upgrades the connection and subscribes it to topic. Callers authorize first.
func (h *Handler) Serve(c *gin.Context, topic string, userID int64) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("topic", topic).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, h.sendBuffer),
		userID:     userID,
		topic:      topic,
		remoteAddr: conn.RemoteAddr().String(),
		logger:     h.logger,
	}
	h.hub.Register(client)

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("topic", topic).
		Int64("userID", userID).
		Str("remoteAddr", client.remoteAddr).
		Msg("WebSocket connection established")
}
