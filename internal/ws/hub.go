package ws

import (
	"log"
	"sync"
)

// Conn is the minimal interface our WebSocket implementation must satisfy.
// *websocket.Conn from gorilla satisfies it; tests substitute a fake.
type Conn interface {
	WriteJSON(v interface{}) error
	ReadJSON(dest interface{}) error
	Close() error
}

// ConnInfo identifies one realtime connection. Username comes from the
// verified token on the handshake, never from event payloads.
type ConnInfo struct {
	ConnID   string
	Username string
}

// Hub maintains the socket-to-room mapping for this process. One room per
// chat group, plus a per-user room every socket joins at registration for
// private messages.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]ConnInfo
	// joined tracks which rooms each connection is in, for disconnect cleanup.
	joined map[Conn]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[Conn]ConnInfo),
		joined: make(map[Conn]map[string]struct{}),
	}
}

// Register adds a connection and subscribes it to its own user room.
func (h *Hub) Register(conn Conn, info ConnInfo) {
	h.Join(UserRoom(info.Username), conn, info)
}

// Unregister removes a connection from every room it joined. Presence state
// in the store is not touched here; only an explicit leave clears it.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.joined[conn] {
		h.removeLocked(room, conn)
	}
	delete(h.joined, conn)
}

// Join subscribes a connection to a room.
func (h *Hub) Join(room string, conn Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[Conn]ConnInfo)
	}
	h.rooms[room][conn] = info
	if _, ok := h.joined[conn]; !ok {
		h.joined[conn] = make(map[string]struct{})
	}
	h.joined[conn][room] = struct{}{}
}

// Leave unsubscribes a connection from a room.
func (h *Hub) Leave(room string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(room, conn)
	if joined, ok := h.joined[conn]; ok {
		delete(joined, room)
		if len(joined) == 0 {
			delete(h.joined, conn)
		}
	}
}

func (h *Hub) removeLocked(room string, conn Conn) {
	if conns, ok := h.rooms[room]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast delivers an event to every connection in the room, skipping the
// connection whose id matches excludeConnID (pass "" to deliver to all).
func (h *Hub) Broadcast(room string, event ServerEvent, excludeConnID string) {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.rooms[room]))
	for conn, info := range h.rooms[room] {
		if excludeConnID != "" && info.ConnID == excludeConnID {
			continue
		}
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}
}

// RoomSize returns how many connections are in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
