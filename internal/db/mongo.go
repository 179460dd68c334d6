package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, one per entity.
const (
	ColUsers     = "users"
	ColBudget    = "budget_entries"
	ColChecklist = "checklist_items"
	ColForums    = "forums"
	ColThreads   = "threads"
	ColPosts     = "posts"
	ColGuides    = "guides"
	ColDirectory = "directory_entries"
	ColEvents    = "events"
	ColMessages  = "chat_messages"
)

// Connect opens a client, verifies it with a ping and returns the handle to
// the named database. Callers own the returned database; there is no
// package-level client.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates every index the query patterns rely on. Safe to run
// repeatedly; Mongo treats identical index specs as a no-op.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		ColUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		ColBudget: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "entry_date", Value: -1}}},
		},
		ColChecklist: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "item_key", Value: 1}}, Options: unique},
		},
		ColForums: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: unique},
		},
		ColThreads: {
			{Keys: bson.D{{Key: "forum", Value: 1}, {Key: "last_post_at", Value: -1}}},
		},
		ColPosts: {
			{Keys: bson.D{{Key: "thread", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		ColGuides: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		ColDirectory: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		ColEvents: {
			{Keys: bson.D{{Key: "starts_at", Value: 1}}},
		},
		ColMessages: {
			{Keys: bson.D{{Key: "room", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for col, models := range specs {
		if _, err := database.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique-index violation, which the
// services translate into a conflict error.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
