package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanmaybh/CityMate/internal/db"
	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
	"github.com/tanmaybh/CityMate/internal/realtime"
)

// ForumRoom is the realtime room carrying forum_update events.
const ForumRoom = "forums"

// ForumService owns forums, threads and posts. Thread creation also writes
// the opening post; counters on the parent document track sizes.
type ForumService struct {
	database *mongo.Database
	hub      *realtime.Hub
}

func NewForumService(database *mongo.Database, hub *realtime.Hub) *ForumService {
	return &ForumService{database: database, hub: hub}
}

func (s *ForumService) forums() *mongo.Collection  { return s.database.Collection(db.ColForums) }
func (s *ForumService) threads() *mongo.Collection { return s.database.Collection(db.ColThreads) }
func (s *ForumService) posts() *mongo.Collection   { return s.database.Collection(db.ColPosts) }

// List returns all forums, newest first.
func (s *ForumService) List(ctx context.Context) ([]models.Forum, error) {
	cursor, err := s.forums().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	forums := []models.Forum{}
	if err := cursor.All(ctx, &forums); err != nil {
		return nil, httperr.Internal(err)
	}
	return forums, nil
}

// Create inserts a forum; the unique title index reports duplicates.
func (s *ForumService) Create(ctx context.Context, owner primitive.ObjectID, title, description string) (models.Forum, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return models.Forum{}, httperr.Validation("title and description are required")
	}

	forum := models.Forum{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Owner:       owner,
		CreatedAt:   time.Now(),
	}
	if _, err := s.forums().InsertOne(ctx, forum); err != nil {
		if db.IsDuplicateKey(err) {
			return models.Forum{}, httperr.Conflict("a forum with this title already exists")
		}
		return models.Forum{}, httperr.Internal(err)
	}

	s.hub.Broadcast(ForumRoom, realtime.EventForumUpdate, forum)
	return forum, nil
}

// Detail returns one forum with its threads, most recently active first.
func (s *ForumService) Detail(ctx context.Context, id string) (models.ForumDetail, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ForumDetail{}, httperr.NotFound("forum not found")
	}

	var forum models.Forum
	if err := s.forums().FindOne(ctx, bson.M{"_id": objID}).Decode(&forum); err != nil {
		return models.ForumDetail{}, httperr.NotFound("forum not found")
	}

	cursor, err := s.threads().Find(ctx, bson.M{"forum": objID},
		options.Find().SetSort(bson.D{{Key: "last_post_at", Value: -1}}))
	if err != nil {
		return models.ForumDetail{}, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	detail := models.ForumDetail{Forum: forum, Threads: []models.Thread{}}
	if err := cursor.All(ctx, &detail.Threads); err != nil {
		return models.ForumDetail{}, httperr.Internal(err)
	}
	return detail, nil
}

// CreateThread opens a thread in a forum; the body becomes its first post.
func (s *ForumService) CreateThread(ctx context.Context, forumID string, author models.User, title, content string) (models.Thread, error) {
	objID, err := primitive.ObjectIDFromHex(forumID)
	if err != nil {
		return models.Thread{}, httperr.NotFound("forum not found")
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return models.Thread{}, httperr.Validation("title and content are required")
	}

	if err := s.forums().FindOne(ctx, bson.M{"_id": objID}).Err(); err != nil {
		return models.Thread{}, httperr.NotFound("forum not found")
	}

	now := time.Now()
	thread := models.Thread{
		ID:         primitive.NewObjectID(),
		Forum:      objID,
		Title:      title,
		Author:     author.ID,
		AuthorName: author.Name,
		PostCount:  1,
		CreatedAt:  now,
		LastPostAt: now,
	}
	if _, err := s.threads().InsertOne(ctx, thread); err != nil {
		return models.Thread{}, httperr.Internal(err)
	}

	post := models.Post{
		ID:         primitive.NewObjectID(),
		Thread:     thread.ID,
		Author:     author.ID,
		AuthorName: author.Name,
		Content:    content,
		CreatedAt:  now,
	}
	if _, err := s.posts().InsertOne(ctx, post); err != nil {
		return models.Thread{}, httperr.Internal(err)
	}

	_, err = s.forums().UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"thread_count": 1}})
	if err != nil {
		return models.Thread{}, httperr.Internal(err)
	}

	s.hub.Broadcast(ForumRoom, realtime.EventForumUpdate, thread)
	return thread, nil
}

// ThreadPosts returns a thread with its posts in chronological order.
func (s *ForumService) ThreadPosts(ctx context.Context, threadID string) (models.Thread, []models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(threadID)
	if err != nil {
		return models.Thread{}, nil, httperr.NotFound("thread not found")
	}

	var thread models.Thread
	if err := s.threads().FindOne(ctx, bson.M{"_id": objID}).Decode(&thread); err != nil {
		return models.Thread{}, nil, httperr.NotFound("thread not found")
	}

	cursor, err := s.posts().Find(ctx, bson.M{"thread": objID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return models.Thread{}, nil, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return models.Thread{}, nil, httperr.Internal(err)
	}
	return thread, posts, nil
}

// CreatePost replies to a thread and bumps its counters.
func (s *ForumService) CreatePost(ctx context.Context, threadID string, author models.User, content string) (models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(threadID)
	if err != nil {
		return models.Post{}, httperr.NotFound("thread not found")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Post{}, httperr.Validation("content is required")
	}

	if err := s.threads().FindOne(ctx, bson.M{"_id": objID}).Err(); err != nil {
		return models.Post{}, httperr.NotFound("thread not found")
	}

	now := time.Now()
	post := models.Post{
		ID:         primitive.NewObjectID(),
		Thread:     objID,
		Author:     author.ID,
		AuthorName: author.Name,
		Content:    content,
		CreatedAt:  now,
	}
	if _, err := s.posts().InsertOne(ctx, post); err != nil {
		return models.Post{}, httperr.Internal(err)
	}

	_, err = s.threads().UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"post_count": 1}, "$set": bson.M{"last_post_at": now}})
	if err != nil {
		return models.Post{}, httperr.Internal(err)
	}

	s.hub.Broadcast(ForumRoom, realtime.EventForumUpdate, post)
	return post, nil
}

// DeleteThread removes a thread and its posts. Only the author or an admin
// may delete; others see not found.
func (s *ForumService) DeleteThread(ctx context.Context, threadID string, caller models.User) error {
	objID, err := primitive.ObjectIDFromHex(threadID)
	if err != nil {
		return httperr.NotFound("thread not found")
	}

	filter := bson.M{"_id": objID}
	if caller.Role != models.RoleAdmin {
		filter["author"] = caller.ID
	}

	var thread models.Thread
	if err := s.threads().FindOneAndDelete(ctx, filter).Decode(&thread); err != nil {
		return httperr.NotFound("thread not found")
	}
	if _, err := s.posts().DeleteMany(ctx, bson.M{"thread": objID}); err != nil {
		return httperr.Internal(err)
	}
	_, err = s.forums().UpdateOne(ctx, bson.M{"_id": thread.Forum}, bson.M{"$inc": bson.M{"thread_count": -1}})
	if err != nil {
		return httperr.Internal(err)
	}

	s.hub.Broadcast(ForumRoom, realtime.EventForumUpdate, bson.M{"deletedThread": threadID})
	return nil
}

// DeleteForum removes a forum and everything under it. Admin only; the
// route gate enforces the role.
func (s *ForumService) DeleteForum(ctx context.Context, forumID string) error {
	objID, err := primitive.ObjectIDFromHex(forumID)
	if err != nil {
		return httperr.NotFound("forum not found")
	}

	res, err := s.forums().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return httperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return httperr.NotFound("forum not found")
	}

	cursor, err := s.threads().Find(ctx, bson.M{"forum": objID})
	if err != nil {
		return httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var threads []models.Thread
	if err := cursor.All(ctx, &threads); err != nil {
		return httperr.Internal(err)
	}
	threadIDs := make([]primitive.ObjectID, len(threads))
	for i, t := range threads {
		threadIDs[i] = t.ID
	}

	if len(threadIDs) > 0 {
		if _, err := s.posts().DeleteMany(ctx, bson.M{"thread": bson.M{"$in": threadIDs}}); err != nil {
			return httperr.Internal(err)
		}
		if _, err := s.threads().DeleteMany(ctx, bson.M{"forum": objID}); err != nil {
			return httperr.Internal(err)
		}
	}

	s.hub.Broadcast(ForumRoom, realtime.EventForumUpdate, bson.M{"deletedForum": forumID})
	return nil
}
