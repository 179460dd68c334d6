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

// EventsRoom is the realtime room carrying event_update events.
const EventsRoom = "events"

// EventInput is the admin create/update payload.
type EventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"imageUrl"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

// EventService owns city events and RSVP state.
type EventService struct {
	database *mongo.Database
	hub      *realtime.Hub
}

func NewEventService(database *mongo.Database, hub *realtime.Hub) *EventService {
	return &EventService{database: database, hub: hub}
}

func (s *EventService) events() *mongo.Collection {
	return s.database.Collection(db.ColEvents)
}

// List returns events ordered by start time; upcoming=true hides past ones.
func (s *EventService) List(ctx context.Context, upcomingOnly bool) ([]models.Event, error) {
	filter := bson.M{}
	if upcomingOnly {
		filter["starts_at"] = bson.M{"$gte": time.Now()}
	}

	cursor, err := s.events().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}}))
	if err != nil {
		return nil, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, httperr.Internal(err)
	}
	return events, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Event{}, httperr.NotFound("event not found")
	}
	var event models.Event
	if err := s.events().FindOne(ctx, bson.M{"_id": objID}).Decode(&event); err != nil {
		return models.Event{}, httperr.NotFound("event not found")
	}
	return event, nil
}

// Create inserts an event (admin only, enforced at the route).
func (s *EventService) Create(ctx context.Context, createdBy primitive.ObjectID, in EventInput) (models.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.Location == "" || in.StartsAt == nil {
		return models.Event{}, httperr.Validation("title, location and startsAt are required")
	}

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		StartsAt:    *in.StartsAt,
		CreatedBy:   createdBy,
		Attendees:   []primitive.ObjectID{},
		CreatedAt:   time.Now(),
	}
	if in.EndsAt != nil {
		event.EndsAt = *in.EndsAt
	}
	if _, err := s.events().InsertOne(ctx, event); err != nil {
		return models.Event{}, httperr.Internal(err)
	}

	s.hub.Broadcast(EventsRoom, realtime.EventEventUpdate, event)
	return event, nil
}

// ToggleRSVP adds the user to the attendee list, or removes them if already
// on it, and returns the updated event.
func (s *EventService) ToggleRSVP(ctx context.Context, id string, userID primitive.ObjectID) (models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Event{}, httperr.NotFound("event not found")
	}

	var current models.Event
	if err := s.events().FindOne(ctx, bson.M{"_id": objID}).Decode(&current); err != nil {
		return models.Event{}, httperr.NotFound("event not found")
	}

	attending := false
	for _, a := range current.Attendees {
		if a == userID {
			attending = true
			break
		}
	}

	op := bson.M{"$addToSet": bson.M{"attendees": userID}}
	if attending {
		op = bson.M{"$pull": bson.M{"attendees": userID}}
	}

	var event models.Event
	if err := s.events().FindOneAndUpdate(ctx, bson.M{"_id": objID}, op, afterUpdate()).Decode(&event); err != nil {
		return models.Event{}, httperr.Internal(err)
	}

	s.hub.Broadcast(EventsRoom, realtime.EventEventUpdate, event)
	return event, nil
}

// Update replaces the fields present in the payload (admin only, enforced
// at the route).
func (s *EventService) Update(ctx context.Context, id string, in EventInput) (models.Event, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Event{}, httperr.NotFound("event not found")
	}

	set := bson.M{}
	if t := strings.TrimSpace(in.Title); t != "" {
		set["title"] = t
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Location != "" {
		set["location"] = in.Location
	}
	if in.Category != "" {
		set["category"] = in.Category
	}
	if in.ImageURL != "" {
		set["image_url"] = in.ImageURL
	}
	if in.StartsAt != nil {
		set["starts_at"] = *in.StartsAt
	}
	if in.EndsAt != nil {
		set["ends_at"] = *in.EndsAt
	}
	if len(set) == 0 {
		return models.Event{}, httperr.Validation("no fields to update")
	}

	var event models.Event
	err = s.events().FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, afterUpdate()).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Event{}, httperr.NotFound("event not found")
		}
		return models.Event{}, httperr.Internal(err)
	}

	s.hub.Broadcast(EventsRoom, realtime.EventEventUpdate, event)
	return event, nil
}

// Delete removes an event (admin only, enforced at the route).
func (s *EventService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.NotFound("event not found")
	}
	res, err := s.events().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return httperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return httperr.NotFound("event not found")
	}

	s.hub.Broadcast(EventsRoom, realtime.EventEventUpdate, bson.M{"deleted": id})
	return nil
}
