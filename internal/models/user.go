package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Professional paths drive checklist seeding and guide filtering.
const (
	PathStudent      = "STUDENT"
	PathExpat        = "EXPAT"
	PathEntrepreneur = "ENTREPRENEUR"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	Password           string             `bson:"password,omitempty" json:"-"`
	Role               string             `bson:"role" json:"role"`
	ProfessionalPath   string             `bson:"professional_path" json:"professionalPath"`
	OnboardingComplete bool               `bson:"onboarding_complete" json:"onboardingComplete"`
	AvatarURL          string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
}

// ValidPath reports whether p is one of the known professional paths.
func ValidPath(p string) bool {
	switch p {
	case PathStudent, PathExpat, PathEntrepreneur:
		return true
	}
	return false
}
