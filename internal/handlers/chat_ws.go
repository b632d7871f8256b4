package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"groupchat-backend/internal/middleware"
	"groupchat-backend/internal/repositories"
	"groupchat-backend/internal/services"
	"groupchat-backend/internal/ws"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// ChatWSHandler upgrades authenticated connections into realtime sessions.
// The token is verified on the handshake; the session's username comes from
// the token, so events cannot impersonate another user.
type ChatWSHandler struct {
	hub    *ws.Hub
	pub    ws.EventPublisher
	groups repositories.GroupRepository
	tokens *services.TokenService
}

func NewChatWSHandler(hub *ws.Hub, pub ws.EventPublisher, groups repositories.GroupRepository, tokens *services.TokenService) *ChatWSHandler {
	return &ChatWSHandler{hub: hub, pub: pub, groups: groups, tokens: tokens}
}

// Serve handles GET /ws/chat. Token via Authorization header or, for browser
// WebSocket clients that cannot set headers, the `token` query parameter.
func (h *ChatWSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	principal, err := h.tokens.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	log.Printf("🔌 User connected: %s", principal.Username)

	session := ws.NewSession(h.hub, h.pub, h.groups, conn, ws.ConnInfo{
		ConnID:   uuid.New().String(),
		Username: principal.Username,
	})
	session.Run(r.Context())

	log.Printf("❌ User disconnected: %s", principal.Username)
}
