package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BudgetIncome  = "INCOME"
	BudgetExpense = "EXPENSE"
)

type BudgetEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Owner       primitive.ObjectID `bson:"owner" json:"-"`
	Type        string             `bson:"type" json:"type"`
	Category    string             `bson:"category" json:"category"`
	Amount      float64            `bson:"amount" json:"amount"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	EntryDate   time.Time          `bson:"entry_date" json:"entryDate"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// BudgetSummary aggregates a user's entries for the dashboard screen.
type BudgetSummary struct {
	TotalIncome   float64            `json:"totalIncome"`
	TotalExpenses float64            `json:"totalExpenses"`
	Balance       float64            `json:"balance"`
	ByCategory    map[string]float64 `json:"byCategory"`
}

func ValidBudgetType(t string) bool {
	return t == BudgetIncome || t == BudgetExpense
}
