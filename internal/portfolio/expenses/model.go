// Package expenses tracks operating costs attached to a property.
package expenses

import (
	"time"

	"github.com/google/uuid"
)

// Expense is a single cost entry against a property.
type Expense struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PropertyID  uuid.UUID `json:"property_id" db:"property_id"`
	Category    string    `json:"category" db:"category"`
	Amount      float64   `json:"amount" db:"amount"`
	ExpenseDate time.Time `json:"expense_date" db:"expense_date"`
	Vendor      *string   `json:"vendor,omitempty" db:"vendor"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
