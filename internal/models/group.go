package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMember is the nested member shape stored on the group document.
type GroupMember struct {
	Username string `bson:"username" json:"username"`
}

// Group is a single chat group. Messages and the online set live on the group
// document itself; single-document updates ($push, $addToSet, $pull) are the
// concurrency-safety mechanism for them.
type Group struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	GroupName string        `bson:"group_name" json:"groupName"`
	Admin     GroupMember   `bson:"admin" json:"admin"`
	Members   []GroupMember `bson:"members" json:"members"`
	Avatar    string        `bson:"avatar,omitempty" json:"avatar,omitempty"`

	Messages []ChatMessage `bson:"messages" json:"messages"`
	Online   []string      `bson:"online" json:"online"`
}
