package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Forum struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	ThreadCount int64              `bson:"thread_count" json:"threadCount"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

type Thread struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Forum      primitive.ObjectID `bson:"forum" json:"forumId"`
	Title      string             `bson:"title" json:"title"`
	Author     primitive.ObjectID `bson:"author" json:"authorId"`
	AuthorName string             `bson:"author_name" json:"authorName"`
	PostCount  int64              `bson:"post_count" json:"postCount"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	LastPostAt time.Time          `bson:"last_post_at" json:"lastPostAt"`
}

type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Thread     primitive.ObjectID `bson:"thread" json:"threadId"`
	Author     primitive.ObjectID `bson:"author" json:"authorId"`
	AuthorName string             `bson:"author_name" json:"authorName"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// ForumDetail is the GET /api/forums/:id response shape.
type ForumDetail struct {
	Forum   `bson:",inline"`
	Threads []Thread `json:"threads"`
}
