// Package properties is the root resource of a portfolio: every other
// portfolio resource hangs off a property row.
package properties

import (
	"time"

	"github.com/google/uuid"
)

// Property is a building or unit owned by a user.
type Property struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Name          string     `json:"name" db:"name"`
	AddressLine1  string     `json:"address_line1" db:"address_line1"`
	City          *string    `json:"city,omitempty" db:"city"`
	State         *string    `json:"state,omitempty" db:"state"`
	PostalCode    *string    `json:"postal_code,omitempty" db:"postal_code"`
	PropertyType  string     `json:"property_type" db:"property_type"`
	PurchasePrice *float64   `json:"purchase_price,omitempty" db:"purchase_price"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	CurrentValue  *float64   `json:"current_value,omitempty" db:"current_value"`
	Notes         *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
