package ws

import (
	"context"
	"log"
	"time"

	"groupchat-backend/internal/models"
	"groupchat-backend/internal/observability"
	"groupchat-backend/internal/repositories"
)

// Session drives one authenticated realtime connection: it decodes inbound
// frames, dispatches them, and triggers the presence and chat-log side
// effects. Failures are logged and the event dropped; the realtime tier has
// no error channel back to the client.
type Session struct {
	hub    *Hub
	pub    EventPublisher
	groups repositories.GroupRepository
	conn   Conn
	info   ConnInfo
}

func NewSession(hub *Hub, pub EventPublisher, groups repositories.GroupRepository, conn Conn, info ConnInfo) *Session {
	return &Session{hub: hub, pub: pub, groups: groups, conn: conn, info: info}
}

// Run registers the connection and processes events until the read side
// fails (client disconnect). Presence entries created via group-join are not
// reconciled on disconnect; only an explicit leave clears them.
func (s *Session) Run(ctx context.Context) {
	s.hub.Register(s.conn, s.info)
	observability.IncWSActive()
	defer func() {
		s.hub.Unregister(s.conn)
		observability.DecWSActive()
	}()

	for {
		var ev ClientEvent
		if err := s.conn.ReadJSON(&ev); err != nil {
			return
		}
		s.Handle(ctx, ev)
	}
}

// Handle dispatches one decoded event.
func (s *Session) Handle(ctx context.Context, ev ClientEvent) {
	observability.IncWSEvent(ev.Event)

	switch ev.Event {
	case EventJoin:
		s.handleJoin(ctx, ev.Room, false)
	case EventGroupJoin:
		s.handleJoin(ctx, ev.Room, true)
	case EventLeave:
		s.handleLeave(ctx, ev.Room)
	case EventSendMessage:
		s.handleSendMessage(ctx, ev.Room, ev.Data)
	case EventPrivateMessage:
		s.handlePrivateMessage(ctx, ev.ToUserID, ev.Message)
	default:
		// Ignore unknown event names
	}
}

func (s *Session) handleJoin(ctx context.Context, room string, markOnline bool) {
	if room == "" {
		return
	}
	user := s.info.Username

	s.hub.Join(room, s.conn, s.info)

	// Join notice goes to the room's other members, not back to the joiner.
	event := ServerEvent{
		Event: GroupJoinEvent(room),
		Room:  room,
		User:  user,
		Data:  user + " joined the group",
	}
	if err := s.pub.Publish(ctx, room, event, s.info.ConnID); err != nil {
		log.Printf("ws: join broadcast failed for room %s: %v", room, err)
	}

	if markOnline {
		if err := s.groups.AddOnline(ctx, room, user); err != nil {
			log.Printf("ws: mark online failed for %s in %s: %v", user, room, err)
		}
	}
}

func (s *Session) handleLeave(ctx context.Context, room string) {
	if room == "" {
		return
	}
	user := s.info.Username

	s.hub.Leave(room, s.conn)

	event := ServerEvent{
		Event: GroupLeaveEvent(room),
		Room:  room,
		User:  user,
		Data:  user + " left the group",
	}
	if err := s.pub.Publish(ctx, room, event, s.info.ConnID); err != nil {
		log.Printf("ws: leave broadcast failed for room %s: %v", room, err)
	}

	if err := s.groups.RemoveOnline(ctx, room, user); err != nil {
		log.Printf("ws: mark offline failed for %s in %s: %v", user, room, err)
	}
}

func (s *Session) handleSendMessage(ctx context.Context, room, data string) {
	if room == "" || data == "" {
		return
	}
	user := s.info.Username

	// Room-wide emit: the sender receives its own message back too.
	event := ServerEvent{
		Event: ReceiveMessageEvent(room),
		Room:  room,
		User:  user,
		Data:  data,
	}
	if err := s.pub.Publish(ctx, room, event, ""); err != nil {
		log.Printf("ws: message broadcast failed for room %s: %v", room, err)
	}

	msg := models.ChatMessage{
		Sender:   user,
		Receiver: room,
		Message:  data,
		Status:   models.MessageStatusSent,
		Time:     time.Now().Format("15:04"),
	}
	if err := s.groups.AppendMessage(ctx, room, msg); err != nil {
		log.Printf("ws: persist message failed for room %s: %v", room, err)
		return
	}
	observability.IncMessagePersisted()
}

// handlePrivateMessage relays a direct message to the target user's own room.
// Best-effort: if no socket of theirs is connected, the event is dropped.
func (s *Session) handlePrivateMessage(ctx context.Context, toUser, message string) {
	if toUser == "" || message == "" {
		return
	}

	event := ServerEvent{
		Event: EventPrivateMessage,
		Room:  UserRoom(toUser),
		User:  s.info.Username,
		Data:  message,
	}
	if err := s.pub.Publish(ctx, UserRoom(toUser), event, ""); err != nil {
		log.Printf("ws: private message to %s failed: %v", toUser, err)
	}
}
