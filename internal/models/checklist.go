package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChecklistItem is one relocation step for one user. The (owner, item_key)
// pair is unique so re-seeding can never duplicate a step.
type ChecklistItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Owner       primitive.ObjectID `bson:"owner" json:"-"`
	ItemKey     string             `bson:"item_key" json:"itemKey"`
	Title       string             `bson:"title" json:"title"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
