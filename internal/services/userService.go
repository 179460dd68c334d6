package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tanmaybh/CityMate/internal/db"
	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
	"github.com/tanmaybh/CityMate/internal/storage"
)

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
type ProfileUpdate struct {
	Name               *string `json:"name"`
	ProfessionalPath   *string `json:"professionalPath"`
	OnboardingComplete *bool   `json:"onboardingComplete"`
}

// UserService owns profile reads/updates and avatar uploads.
type UserService struct {
	database *mongo.Database
	media    *storage.MediaStore
}

func NewUserService(database *mongo.Database, media *storage.MediaStore) *UserService {
	return &UserService{database: database, media: media}
}

func (s *UserService) users() *mongo.Collection {
	return s.database.Collection(db.ColUsers)
}

// UpdateProfile applies the provided fields and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) (models.User, error) {
	set := bson.M{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return models.User{}, httperr.Validation("name cannot be empty")
		}
		set["name"] = name
	}
	if upd.ProfessionalPath != nil {
		if !models.ValidPath(*upd.ProfessionalPath) {
			return models.User{}, httperr.Validation("unknown professional path")
		}
		set["professional_path"] = *upd.ProfessionalPath
	}
	if upd.OnboardingComplete != nil {
		set["onboarding_complete"] = *upd.OnboardingComplete
	}
	if len(set) == 0 {
		return models.User{}, httperr.Validation("no fields to update")
	}

	var user models.User
	err := s.users().FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		afterUpdate(),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, httperr.NotFound("user not found")
		}
		return models.User{}, httperr.Internal(err)
	}
	user.Password = ""
	return user, nil
}

// UploadAvatar stores the image in MinIO and records its URL on the user.
func (s *UserService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, fileHeader *multipart.FileHeader) (string, error) {
	if s.media == nil {
		return "", &httperr.Error{Status: fiber.StatusServiceUnavailable, Message: "media storage unavailable"}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", httperr.Validation("avatar must be a jpg, png or webp image")
	}
	if fileHeader.Size > 5<<20 {
		return "", httperr.Validation("avatar must be smaller than 5 MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", httperr.Validation("failed to read uploaded file")
	}
	defer file.Close()

	objectName := fmt.Sprintf("avatars/%s_%d%s", userID.Hex(), time.Now().Unix(), ext)
	url, err := s.media.Upload(ctx, objectName, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return "", httperr.Internal(err)
	}

	_, err = s.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"avatar_url": url}})
	if err != nil {
		return "", httperr.Internal(err)
	}
	return url, nil
}
