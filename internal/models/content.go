package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Guide struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Slug      string             `bson:"slug" json:"slug"`
	Content   string             `bson:"content" json:"content"`
	Path      string             `bson:"path,omitempty" json:"path,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Service directory categories.
const (
	DirHousing   = "HOUSING"
	DirBanking   = "BANKING"
	DirLegal     = "LEGAL"
	DirHealth    = "HEALTH"
	DirEducation = "EDUCATION"
	DirCoworking = "COWORKING"
	DirOther     = "OTHER"
)

type DirectoryEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Recommended bool               `bson:"recommended" json:"recommended"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

func ValidDirectoryCategory(c string) bool {
	switch c {
	case DirHousing, DirBanking, DirLegal, DirHealth, DirEducation, DirCoworking, DirOther:
		return true
	}
	return false
}
