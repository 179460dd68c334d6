package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/tanmaybh/CityMate/internal/db"
	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
	"github.com/tanmaybh/CityMate/internal/realtime"
)

// Stats is the admin dashboard snapshot.
type Stats struct {
	Users            int64 `json:"users"`
	BudgetEntries    int64 `json:"budgetEntries"`
	Forums           int64 `json:"forums"`
	Threads          int64 `json:"threads"`
	Posts            int64 `json:"posts"`
	Guides           int64 `json:"guides"`
	DirectoryEntries int64 `json:"directoryEntries"`
	Events           int64 `json:"events"`
	ChatMessages     int64 `json:"chatMessages"`
	ConnectedClients int   `json:"connectedClients"`
}

// AdminService backs the admin-only routes.
type AdminService struct {
	database *mongo.Database
	hub      *realtime.Hub
}

func NewAdminService(database *mongo.Database, hub *realtime.Hub) *AdminService {
	return &AdminService{database: database, hub: hub}
}

// ListUsers returns every user, without password hashes.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.database.Collection(db.ColUsers).Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, httperr.Internal(err)
	}
	return users, nil
}

// GetUser returns one user by id.
func (s *AdminService) GetUser(ctx context.Context, id string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, httperr.NotFound("user not found")
	}
	var user models.User
	err = s.database.Collection(db.ColUsers).FindOne(ctx, bson.M{"_id": objID},
		options.FindOne().SetProjection(bson.M{"password": 0})).Decode(&user)
	if err != nil {
		return models.User{}, httperr.NotFound("user not found")
	}
	return user, nil
}

// GatherStats counts every collection in parallel.
func (s *AdminService) GatherStats(ctx context.Context) (Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	count := func(col string, dest *int64) func() error {
		return func() error {
			n, err := s.database.Collection(col).CountDocuments(ctx, bson.M{})
			if err != nil {
				return err
			}
			*dest = n
			return nil
		}
	}

	g.Go(count(db.ColUsers, &stats.Users))
	g.Go(count(db.ColBudget, &stats.BudgetEntries))
	g.Go(count(db.ColForums, &stats.Forums))
	g.Go(count(db.ColThreads, &stats.Threads))
	g.Go(count(db.ColPosts, &stats.Posts))
	g.Go(count(db.ColGuides, &stats.Guides))
	g.Go(count(db.ColDirectory, &stats.DirectoryEntries))
	g.Go(count(db.ColEvents, &stats.Events))
	g.Go(count(db.ColMessages, &stats.ChatMessages))

	if err := g.Wait(); err != nil {
		return Stats{}, httperr.Internal(err)
	}
	stats.ConnectedClients = s.hub.ClientCount()
	return stats, nil
}
