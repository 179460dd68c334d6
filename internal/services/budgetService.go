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

// BudgetInput is the create/update payload for a budget entry.
type BudgetInput struct {
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	EntryDate   *time.Time `json:"entryDate"`
}

func (in BudgetInput) validate() error {
	if in.Type == "" || in.Category == "" || in.Amount == 0 {
		return httperr.Validation("type, category and amount are required")
	}
	if !models.ValidBudgetType(in.Type) {
		return httperr.Validation("type must be INCOME or EXPENSE")
	}
	if in.Amount < 0 {
		return httperr.Validation("amount must be positive")
	}
	return nil
}

// BudgetService owns a user's income/expense entries. Every mutation also
// pushes a budget_update event to the owner's live connections.
type BudgetService struct {
	database *mongo.Database
	hub      *realtime.Hub
}

func NewBudgetService(database *mongo.Database, hub *realtime.Hub) *BudgetService {
	return &BudgetService{database: database, hub: hub}
}

func (s *BudgetService) entries() *mongo.Collection {
	return s.database.Collection(db.ColBudget)
}

// List returns the owner's entries, newest first, optionally filtered by
// type and category.
func (s *BudgetService) List(ctx context.Context, owner primitive.ObjectID, entryType, category string) ([]models.BudgetEntry, error) {
	filter := bson.M{"owner": owner}
	if entryType != "" {
		if !models.ValidBudgetType(entryType) {
			return nil, httperr.Validation("type must be INCOME or EXPENSE")
		}
		filter["type"] = entryType
	}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := s.entries().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "entry_date", Value: -1}}))
	if err != nil {
		return nil, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	entries := []models.BudgetEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, httperr.Internal(err)
	}
	return entries, nil
}

// Create validates and inserts a new entry.
func (s *BudgetService) Create(ctx context.Context, owner primitive.ObjectID, in BudgetInput) (models.BudgetEntry, error) {
	if err := in.validate(); err != nil {
		return models.BudgetEntry{}, err
	}

	entryDate := time.Now()
	if in.EntryDate != nil {
		entryDate = *in.EntryDate
	}

	entry := models.BudgetEntry{
		ID:          primitive.NewObjectID(),
		Owner:       owner,
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		EntryDate:   entryDate,
		CreatedAt:   time.Now(),
	}
	if _, err := s.entries().InsertOne(ctx, entry); err != nil {
		return models.BudgetEntry{}, httperr.Internal(err)
	}

	s.hub.BroadcastToUser(owner.Hex(), realtime.EventBudgetUpdate, entry)
	return entry, nil
}

// Update replaces the fields present in the payload on an entry the caller
// owns. A foreign entry is reported as not found, same as a missing one.
func (s *BudgetService) Update(ctx context.Context, owner primitive.ObjectID, id string, in BudgetInput) (models.BudgetEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.BudgetEntry{}, httperr.NotFound("budget entry not found")
	}

	set := bson.M{}
	if in.Type != "" {
		if !models.ValidBudgetType(in.Type) {
			return models.BudgetEntry{}, httperr.Validation("type must be INCOME or EXPENSE")
		}
		set["type"] = in.Type
	}
	if in.Category != "" {
		set["category"] = strings.TrimSpace(in.Category)
	}
	if in.Amount != 0 {
		if in.Amount < 0 {
			return models.BudgetEntry{}, httperr.Validation("amount must be positive")
		}
		set["amount"] = in.Amount
	}
	if in.Description != "" {
		set["description"] = strings.TrimSpace(in.Description)
	}
	if in.EntryDate != nil {
		set["entry_date"] = *in.EntryDate
	}
	if len(set) == 0 {
		return models.BudgetEntry{}, httperr.Validation("no fields to update")
	}

	var entry models.BudgetEntry
	err = s.entries().FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "owner": owner},
		bson.M{"$set": set},
		afterUpdate(),
	).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.BudgetEntry{}, httperr.NotFound("budget entry not found")
		}
		return models.BudgetEntry{}, httperr.Internal(err)
	}

	s.hub.BroadcastToUser(owner.Hex(), realtime.EventBudgetUpdate, entry)
	return entry, nil
}

// Delete removes an entry the caller owns; anything else is not found.
func (s *BudgetService) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.NotFound("budget entry not found")
	}

	res, err := s.entries().DeleteOne(ctx, bson.M{"_id": objID, "owner": owner})
	if err != nil {
		return httperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return httperr.NotFound("budget entry not found")
	}

	s.hub.BroadcastToUser(owner.Hex(), realtime.EventBudgetUpdate, bson.M{"deleted": id})
	return nil
}

// Summary aggregates totals and a per-category expense breakdown.
func (s *BudgetService) Summary(ctx context.Context, owner primitive.ObjectID) (models.BudgetSummary, error) {
	entries, err := s.List(ctx, owner, "", "")
	if err != nil {
		return models.BudgetSummary{}, err
	}

	summary := models.BudgetSummary{ByCategory: map[string]float64{}}
	for _, e := range entries {
		switch e.Type {
		case models.BudgetIncome:
			summary.TotalIncome += e.Amount
		case models.BudgetExpense:
			summary.TotalExpenses += e.Amount
			summary.ByCategory[e.Category] += e.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}
