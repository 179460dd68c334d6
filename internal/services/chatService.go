package services

import (
	"context"
	"sort"
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
	"github.com/tanmaybh/CityMate/internal/utils"
)

// Default rooms every user sees even before any message exists.
var defaultRooms = []string{"general", "housing", "jobs", "social"}

const chatPageSize = 50

// ChatService owns room messages. Sends are persisted first, then fanned
// out to the room's sockets; clients that cannot hold a socket poll
// MessagesSince instead.
type ChatService struct {
	database *mongo.Database
	hub      *realtime.Hub
}

func NewChatService(database *mongo.Database, hub *realtime.Hub) *ChatService {
	return &ChatService{database: database, hub: hub}
}

func (s *ChatService) messages() *mongo.Collection {
	return s.database.Collection(db.ColMessages)
}

// Rooms lists the default rooms plus any room that has messages. Each
// room's summary is a separate pair of queries, so they run in parallel.
func (s *ChatService) Rooms(ctx context.Context) ([]models.ChatRoom, error) {
	names, err := s.messages().Distinct(ctx, "room", bson.M{})
	if err != nil {
		return nil, httperr.Internal(err)
	}

	seen := map[string]bool{}
	all := append([]string{}, defaultRooms...)
	for _, r := range all {
		seen[r] = true
	}
	for _, n := range names {
		if name, ok := n.(string); ok && !seen[name] {
			seen[name] = true
			all = append(all, name)
		}
	}
	sort.Strings(all)

	tasks := make([]utils.ParallelTask, len(all))
	for i, name := range all {
		name := name
		tasks[i] = func() (interface{}, error) {
			count, err := s.messages().CountDocuments(ctx, bson.M{"room": name})
			if err != nil {
				return nil, err
			}
			room := models.ChatRoom{Name: name, MessageCount: count}
			if count > 0 {
				var last models.ChatMessage
				err := s.messages().FindOne(ctx, bson.M{"room": name},
					options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&last)
				if err == nil {
					room.LastActivity = last.CreatedAt
				}
			}
			return room, nil
		}
	}

	results, errs := utils.RunParallelTasks(tasks)
	if err := utils.FirstError(errs); err != nil {
		return nil, httperr.Internal(err)
	}

	rooms := make([]models.ChatRoom, len(results))
	for i, r := range results {
		rooms[i] = r.(models.ChatRoom)
	}
	return rooms, nil
}

// MessagesSince returns a room's messages newer than since, oldest first,
// capped at a page. A zero since returns the latest page. With a since
// cursor the oldest matching page is returned, so a poller that advances
// since to the last message it saw walks the history forward without gaps
// even when more than a page arrived between polls.
func (s *ChatService) MessagesSince(ctx context.Context, room string, since time.Time) ([]models.ChatMessage, error) {
	if room == "" {
		return nil, httperr.Validation("room is required")
	}

	filter := bson.M{"room": room}
	order := bson.D{{Key: "created_at", Value: 1}}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gt": since}
	} else {
		// Latest page: sort newest-first to apply the limit, then flip.
		order = bson.D{{Key: "created_at", Value: -1}}
	}

	cursor, err := s.messages().Find(ctx, filter,
		options.Find().SetSort(order).SetLimit(chatPageSize))
	if err != nil {
		return nil, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	msgs := []models.ChatMessage{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, httperr.Internal(err)
	}

	if since.IsZero() {
		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
	}
	return msgs, nil
}

// Send persists a message and broadcasts it to the room.
func (s *ChatService) Send(ctx context.Context, room string, sender models.User, content string) (models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if room == "" || content == "" {
		return models.ChatMessage{}, httperr.Validation("room and content are required")
	}
	if len(content) > 2000 {
		return models.ChatMessage{}, httperr.Validation("message too long")
	}

	msg := models.ChatMessage{
		ID:         primitive.NewObjectID(),
		Room:       room,
		Sender:     sender.ID,
		SenderName: sender.Name,
		Content:    content,
		ReadBy:     []primitive.ObjectID{sender.ID},
		CreatedAt:  time.Now(),
	}
	if _, err := s.messages().InsertOne(ctx, msg); err != nil {
		return models.ChatMessage{}, httperr.Internal(err)
	}

	s.hub.Broadcast(room, realtime.EventNewMessage, msg)
	return msg, nil
}

// MarkRead adds the user to the read markers of every message in the room
// and reports how many messages were newly marked.
func (s *ChatService) MarkRead(ctx context.Context, room string, userID primitive.ObjectID) (int64, error) {
	if room == "" {
		return 0, httperr.Validation("room is required")
	}
	res, err := s.messages().UpdateMany(ctx,
		bson.M{"room": room, "read_by": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"read_by": userID}})
	if err != nil {
		return 0, httperr.Internal(err)
	}
	return res.ModifiedCount, nil
}
