package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanmaybh/CityMate/internal/cache"
	"github.com/tanmaybh/CityMate/internal/db"
	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
)

// Guides and directory entries change rarely and are read on every app
// open, so list reads go through the TTL cache with concurrent cold reads
// coalesced by the batcher.
const contentCacheTTL = 5 * time.Minute

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a guide title into its URL slug.
func Slugify(title string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// GuideInput is the admin create/update payload.
type GuideInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Path    string `json:"path"`
}

// DirectoryInput is the admin create/update payload for a directory entry.
type DirectoryInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	Recommended bool   `json:"recommended"`
}

// ContentService serves guides and the service directory.
type ContentService struct {
	database *mongo.Database
	cache    *cache.Store
	batcher  *cache.Batcher
}

func NewContentService(database *mongo.Database, store *cache.Store, batcher *cache.Batcher) *ContentService {
	return &ContentService{database: database, cache: store, batcher: batcher}
}

func (s *ContentService) guides() *mongo.Collection    { return s.database.Collection(db.ColGuides) }
func (s *ContentService) directory() *mongo.Collection { return s.database.Collection(db.ColDirectory) }

// cachedList runs fetch through the cache and, on a miss, the batcher, so a
// stampede of cold reads costs one query.
func (s *ContentService) cachedList(ctx context.Context, key string, fetch cache.Resolver) (interface{}, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	v, err := s.batcher.Do(ctx, key, func(ctx context.Context) (interface{}, error) {
		v, err := fetch(ctx)
		if err == nil {
			s.cache.Set(key, v, contentCacheTTL)
		}
		return v, err
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Guides lists guides, optionally filtered by professional path.
func (s *ContentService) Guides(ctx context.Context, path string) ([]models.Guide, error) {
	if path != "" && !models.ValidPath(path) {
		return nil, httperr.Validation("unknown professional path")
	}

	v, err := s.cachedList(ctx, "guides:"+path, func(ctx context.Context) (interface{}, error) {
		filter := bson.M{}
		if path != "" {
			// Untagged guides apply to every path.
			filter["$or"] = bson.A{bson.M{"path": path}, bson.M{"path": ""}}
		}
		cursor, err := s.guides().Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
		if err != nil {
			return nil, httperr.Internal(err)
		}
		defer cursor.Close(ctx)

		guides := []models.Guide{}
		if err := cursor.All(ctx, &guides); err != nil {
			return nil, httperr.Internal(err)
		}
		return guides, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Guide), nil
}

// GuideBySlug returns one guide.
func (s *ContentService) GuideBySlug(ctx context.Context, slug string) (models.Guide, error) {
	var guide models.Guide
	if err := s.guides().FindOne(ctx, bson.M{"slug": slug}).Decode(&guide); err != nil {
		return models.Guide{}, httperr.NotFound("guide not found")
	}
	return guide, nil
}

// Directory lists service directory entries with optional filters.
func (s *ContentService) Directory(ctx context.Context, category string, recommendedOnly bool) ([]models.DirectoryEntry, error) {
	if category != "" && !models.ValidDirectoryCategory(category) {
		return nil, httperr.Validation("unknown directory category")
	}

	key := "directory:" + category
	if recommendedOnly {
		key += ":recommended"
	}
	v, err := s.cachedList(ctx, key, func(ctx context.Context) (interface{}, error) {
		filter := bson.M{}
		if category != "" {
			filter["category"] = category
		}
		if recommendedOnly {
			filter["recommended"] = true
		}
		cursor, err := s.directory().Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return nil, httperr.Internal(err)
		}
		defer cursor.Close(ctx)

		entries := []models.DirectoryEntry{}
		if err := cursor.All(ctx, &entries); err != nil {
			return nil, httperr.Internal(err)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.DirectoryEntry), nil
}

// invalidate drops every cached content list. Coarse but cheap at this
// collection size.
func (s *ContentService) invalidate() {
	for _, path := range []string{"", models.PathStudent, models.PathExpat, models.PathEntrepreneur} {
		s.cache.Delete("guides:" + path)
	}
	categories := []string{"", models.DirHousing, models.DirBanking, models.DirLegal,
		models.DirHealth, models.DirEducation, models.DirCoworking, models.DirOther}
	for _, c := range categories {
		s.cache.Delete("directory:" + c)
		s.cache.Delete("directory:" + c + ":recommended")
	}
}

// CreateGuide inserts a guide, deriving the slug from the title.
func (s *ContentService) CreateGuide(ctx context.Context, in GuideInput) (models.Guide, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return models.Guide{}, httperr.Validation("title and content are required")
	}
	if in.Path != "" && !models.ValidPath(in.Path) {
		return models.Guide{}, httperr.Validation("unknown professional path")
	}

	guide := models.Guide{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		Slug:      Slugify(in.Title),
		Content:   in.Content,
		Path:      in.Path,
		CreatedAt: time.Now(),
	}
	if _, err := s.guides().InsertOne(ctx, guide); err != nil {
		if db.IsDuplicateKey(err) {
			return models.Guide{}, httperr.Conflict("a guide with this slug already exists")
		}
		return models.Guide{}, httperr.Internal(err)
	}

	s.invalidate()
	return guide, nil
}

// UpdateGuide replaces the provided fields on a guide.
func (s *ContentService) UpdateGuide(ctx context.Context, id string, in GuideInput) (models.Guide, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Guide{}, httperr.NotFound("guide not found")
	}

	set := bson.M{}
	if t := strings.TrimSpace(in.Title); t != "" {
		set["title"] = t
		set["slug"] = Slugify(t)
	}
	if in.Content != "" {
		set["content"] = in.Content
	}
	if in.Path != "" {
		if !models.ValidPath(in.Path) {
			return models.Guide{}, httperr.Validation("unknown professional path")
		}
		set["path"] = in.Path
	}
	if len(set) == 0 {
		return models.Guide{}, httperr.Validation("no fields to update")
	}

	var guide models.Guide
	err = s.guides().FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, afterUpdate()).Decode(&guide)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Guide{}, httperr.NotFound("guide not found")
		}
		if db.IsDuplicateKey(err) {
			return models.Guide{}, httperr.Conflict("a guide with this slug already exists")
		}
		return models.Guide{}, httperr.Internal(err)
	}

	s.invalidate()
	return guide, nil
}

// DeleteGuide removes a guide.
func (s *ContentService) DeleteGuide(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.NotFound("guide not found")
	}
	res, err := s.guides().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return httperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return httperr.NotFound("guide not found")
	}
	s.invalidate()
	return nil
}

// CreateDirectoryEntry inserts a directory entry.
func (s *ContentService) CreateDirectoryEntry(ctx context.Context, in DirectoryInput) (models.DirectoryEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Category == "" {
		return models.DirectoryEntry{}, httperr.Validation("name and category are required")
	}
	if !models.ValidDirectoryCategory(in.Category) {
		return models.DirectoryEntry{}, httperr.Validation("unknown directory category")
	}

	entry := models.DirectoryEntry{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Phone:       in.Phone,
		Email:       in.Email,
		Website:     in.Website,
		Address:     in.Address,
		Recommended: in.Recommended,
		CreatedAt:   time.Now(),
	}
	if _, err := s.directory().InsertOne(ctx, entry); err != nil {
		return models.DirectoryEntry{}, httperr.Internal(err)
	}

	s.invalidate()
	return entry, nil
}

// UpdateDirectoryEntry replaces the provided fields on a directory entry.
func (s *ContentService) UpdateDirectoryEntry(ctx context.Context, id string, in DirectoryInput) (models.DirectoryEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.DirectoryEntry{}, httperr.NotFound("directory entry not found")
	}

	set := bson.M{"recommended": in.Recommended}
	if n := strings.TrimSpace(in.Name); n != "" {
		set["name"] = n
	}
	if in.Category != "" {
		if !models.ValidDirectoryCategory(in.Category) {
			return models.DirectoryEntry{}, httperr.Validation("unknown directory category")
		}
		set["category"] = in.Category
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Phone != "" {
		set["phone"] = in.Phone
	}
	if in.Email != "" {
		set["email"] = in.Email
	}
	if in.Website != "" {
		set["website"] = in.Website
	}
	if in.Address != "" {
		set["address"] = in.Address
	}

	var entry models.DirectoryEntry
	err = s.directory().FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, afterUpdate()).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.DirectoryEntry{}, httperr.NotFound("directory entry not found")
		}
		return models.DirectoryEntry{}, httperr.Internal(err)
	}

	s.invalidate()
	return entry, nil
}

// DeleteDirectoryEntry removes a directory entry.
func (s *ContentService) DeleteDirectoryEntry(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.NotFound("directory entry not found")
	}
	res, err := s.directory().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return httperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return httperr.NotFound("directory entry not found")
	}
	s.invalidate()
	return nil
}
