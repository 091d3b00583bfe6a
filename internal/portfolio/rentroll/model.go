// Package rentroll tracks the units and tenancies of a property.
package rentroll

import (
	"time"

	"github.com/google/uuid"
)

// Occupancy status values for a unit.
const (
	StatusOccupied = "occupied"
	StatusVacant   = "vacant"
	StatusNotice   = "notice"
)

// RentRoll is one unit of a property together with its current tenancy.
type RentRoll struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	PropertyID      uuid.UUID  `json:"property_id" db:"property_id"`
	UnitNumber      string     `json:"unit_number" db:"unit_number"`
	OccupancyStatus string     `json:"occupancy_status" db:"occupancy_status"`
	TenantName      *string    `json:"tenant_name,omitempty" db:"tenant_name"`
	LeaseStartDate  *time.Time `json:"lease_start_date,omitempty" db:"lease_start_date"`
	LeaseEndDate    *time.Time `json:"lease_end_date,omitempty" db:"lease_end_date"`
	MonthlyRent     *float64   `json:"monthly_rent,omitempty" db:"monthly_rent"`
	SecurityDeposit *float64   `json:"security_deposit,omitempty" db:"security_deposit"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
