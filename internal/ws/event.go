package ws

// Inbound event names. Decoded once at the transport boundary and dispatched
// via an explicit switch; unknown names are ignored.
const (
	EventJoin           = "join"
	EventGroupJoin      = "group-join"
	EventLeave          = "leave"
	EventSendMessage    = "Send-Message"
	EventPrivateMessage = "private_message"
)

// ClientEvent is the single inbound frame shape. Which fields are meaningful
// depends on Event: room events carry {room, user, data}, private messages
// carry {toUserId, message, fromUser}.
type ClientEvent struct {
	Event string `json:"event"`
	Room  string `json:"room,omitempty"`
	User  string `json:"user,omitempty"`
	Data  string `json:"data,omitempty"`

	ToUserID string `json:"toUserId,omitempty"`
	Message  string `json:"message,omitempty"`
	FromUser string `json:"fromUser,omitempty"`
}

// ServerEvent is the outbound frame broadcast to room members. Event carries
// the room-suffixed name the frontend subscribes to, e.g. "Recieve-Message-g1"
// (wire contract spelling).
type ServerEvent struct {
	Event string `json:"event"`
	Room  string `json:"room"`
	User  string `json:"user"`
	Data  string `json:"data"`
}

// Room-suffixed outbound event name builders.
func GroupJoinEvent(room string) string      { return "Group-Join-" + room }
func GroupLeaveEvent(room string) string     { return "Group-Leave-" + room }
func ReceiveMessageEvent(room string) string { return "Recieve-Message-" + room }

// userRoomPrefix namespaces the per-user rooms used for private messages so a
// group named like a user cannot capture their direct messages.
const userRoomPrefix = "user:"

func UserRoom(username string) string { return userRoomPrefix + username }
