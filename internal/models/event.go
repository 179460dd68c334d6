package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Location    string               `bson:"location" json:"location"`
	Category    string               `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL    string               `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	StartsAt    time.Time            `bson:"starts_at" json:"startsAt"`
	EndsAt      time.Time            `bson:"ends_at,omitempty" json:"endsAt,omitempty"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"createdBy"`
	Attendees   []primitive.ObjectID `bson:"attendees" json:"attendees"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
}
