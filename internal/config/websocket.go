package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader     websocket.Upgrader
	ReadLimit    int64
	allowOrigins []string
}

// NewWebSocket accepts any origin unless cors.allowed_origins is set.
func NewWebSocket(c CorsConfig) *WebSocket {
	ws := &WebSocket{
		ReadLimit:    4096,
		allowOrigins: c.AllowedOrigins,
	}
	ws.Upgrader = websocket.Upgrader{
		CheckOrigin: ws.checkOrigin,
	}
	return ws
}

func (ws *WebSocket) checkOrigin(r *http.Request) bool {
	if len(ws.allowOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(ws.allowOrigins, origin)
}
