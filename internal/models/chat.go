package models

// ChatMessageStatus is the delivery marker on a message.
type ChatMessageStatus string

const (
	MessageStatusSent ChatMessageStatus = "sent"
)

// ChatMessage is one entry in a group's message array. Immutable once appended;
// ordering is append order within the group document.
type ChatMessage struct {
	Sender   string            `bson:"sender" json:"sender"`
	Receiver string            `bson:"receiver" json:"receiver"` // group name
	Message  string            `bson:"message" json:"message"`
	Status   ChatMessageStatus `bson:"status" json:"status"`
	Time     string            `bson:"time" json:"time"` // wall-clock label, e.g. "15:04"
}
