// Package users manages the account rows behind authentication. Listing
// and provisioning are admin operations; a principal can read and update
// its own row.
package users

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. The password hash is stored in the same table
// but never selected by this resource.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  *string   `json:"full_name,omitempty" db:"full_name"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
