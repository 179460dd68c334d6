package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatMessage struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Room       string               `bson:"room" json:"room"`
	Sender     primitive.ObjectID   `bson:"sender" json:"senderId"`
	SenderName string               `bson:"sender_name" json:"senderName"`
	Content    string               `bson:"content" json:"content"`
	ReadBy     []primitive.ObjectID `bson:"read_by" json:"readBy"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
}

// ChatRoom summarizes one room for the room list screen.
type ChatRoom struct {
	Name         string    `json:"name"`
	MessageCount int64     `json:"messageCount"`
	LastActivity time.Time `json:"lastActivity,omitempty"`
}
