package services

import (
	"context"
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

type checklistTemplate struct {
	Key   string
	Title string
}

// Relocation steps common to everyone, seeded first.
var baseChecklist = []checklistTemplate{
	{"register-address", "Register your address at city hall"},
	{"open-bank-account", "Open a local bank account"},
	{"get-sim-card", "Get a local SIM card"},
	{"health-insurance", "Arrange health insurance"},
	{"public-transport", "Get a public transport pass"},
}

// Path-specific steps appended after the base set.
var pathChecklists = map[string][]checklistTemplate{
	models.PathStudent: {
		{"enroll-university", "Complete university enrollment"},
		{"student-discounts", "Apply for student discount cards"},
		{"find-student-housing", "Apply for student housing"},
	},
	models.PathExpat: {
		{"residence-permit", "Apply for a residence permit"},
		{"tax-number", "Request a tax identification number"},
		{"language-course", "Sign up for a language course"},
	},
	models.PathEntrepreneur: {
		{"register-business", "Register your business"},
		{"business-bank-account", "Open a business bank account"},
		{"find-coworking", "Find a coworking space"},
		{"chamber-of-commerce", "Register with the chamber of commerce"},
	},
}

// checklistFor returns the seed set for a professional path. Unknown or
// empty paths get just the base set.
func checklistFor(path string) []checklistTemplate {
	out := make([]checklistTemplate, 0, len(baseChecklist)+4)
	out = append(out, baseChecklist...)
	out = append(out, pathChecklists[path]...)
	return out
}

// ChecklistService owns per-user relocation checklists, seeding them on
// first read.
type ChecklistService struct {
	database *mongo.Database
	hub      *realtime.Hub
}

func NewChecklistService(database *mongo.Database, hub *realtime.Hub) *ChecklistService {
	return &ChecklistService{database: database, hub: hub}
}

func (s *ChecklistService) items() *mongo.Collection {
	return s.database.Collection(db.ColChecklist)
}

// List returns the user's checklist, seeding it from the path template when
// empty. Seeding is idempotent: the unique (owner, item_key) index swallows
// the race when two first reads arrive together.
func (s *ChecklistService) List(ctx context.Context, user models.User) ([]models.ChecklistItem, error) {
	count, err := s.items().CountDocuments(ctx, bson.M{"owner": user.ID})
	if err != nil {
		return nil, httperr.Internal(err)
	}
	if count == 0 {
		if err := s.seed(ctx, user); err != nil {
			return nil, err
		}
	}

	cursor, err := s.items().Find(ctx, bson.M{"owner": user.ID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "item_key", Value: 1}}))
	if err != nil {
		return nil, httperr.Internal(err)
	}
	defer cursor.Close(ctx)

	items := []models.ChecklistItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, httperr.Internal(err)
	}
	return items, nil
}

func (s *ChecklistService) seed(ctx context.Context, user models.User) error {
	now := time.Now()
	docs := make([]interface{}, 0, len(baseChecklist)+4)
	for _, tpl := range checklistFor(user.ProfessionalPath) {
		docs = append(docs, models.ChecklistItem{
			ID:        primitive.NewObjectID(),
			Owner:     user.ID,
			ItemKey:   tpl.Key,
			Title:     tpl.Title,
			CreatedAt: now,
		})
	}

	// Unordered insert: a concurrent seed only fails its duplicates.
	_, err := s.items().InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !db.IsDuplicateKey(err) {
		return httperr.Internal(err)
	}
	return nil
}

// SetCompleted flips the completed flag on one item and pushes a
// checklist_update to the owner.
func (s *ChecklistService) SetCompleted(ctx context.Context, owner primitive.ObjectID, itemKey string, completed bool) (models.ChecklistItem, error) {
	update := bson.M{"$set": bson.M{"completed": completed}}
	if completed {
		now := time.Now()
		update["$set"].(bson.M)["completed_at"] = now
	} else {
		update["$unset"] = bson.M{"completed_at": ""}
	}

	var item models.ChecklistItem
	err := s.items().FindOneAndUpdate(ctx,
		bson.M{"owner": owner, "item_key": itemKey},
		update,
		afterUpdate(),
	).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ChecklistItem{}, httperr.NotFound("checklist item not found")
		}
		return models.ChecklistItem{}, httperr.Internal(err)
	}

	s.hub.BroadcastToUser(owner.Hex(), realtime.EventChecklistUpdate, item)
	return item, nil
}
