package rentroll

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/resource"
)

// Descriptor is the access-layer configuration for rent-roll rows. Units
// are unique per property, and writes that mark a unit vacant drop its
// tenant fields.
func Descriptor() resource.Descriptor {
	return resource.Descriptor{
		Name:  "rent_rolls",
		Table: "rent_rolls",
		Columns: []string{
			"id", "property_id", "unit_number", "occupancy_status",
			"tenant_name", "lease_start_date", "lease_end_date",
			"monthly_rent", "security_deposit", "created_at", "updated_at",
		},
		OwnerPaths: []resource.OwnerPath{
			{Column: "property_id", ParentTable: "properties", ParentOwnerColumn: "user_id"},
		},
		Filters: []resource.FilterField{
			{Param: "property_id", Column: "property_id", Kind: resource.FilterEquals},
			{Param: "occupancy_status", Column: "occupancy_status", Kind: resource.FilterEquals},
		},
		SortFields: map[string]string{
			"created_at":   "created_at",
			"unit_number":  "unit_number",
			"monthly_rent": "monthly_rent",
		},
		DefaultSort: "created_at",
		SoftDelete:  true,
		Unique:      &resource.UniqueRule{Columns: []string{"property_id", "unit_number"}},
		BeforeWrite: clearTenantOnVacancy,
	}
}

// NewEndpoints wires the rent-roll endpoints.
func NewEndpoints(logger *slog.Logger, db resource.DB, cache *resource.Cache, validate *validator.Validate, maxLimit int) *resource.Endpoints[RentRoll] {
	desc := Descriptor()
	table := resource.NewTable[RentRoll](db, desc)
	service := resource.NewService(logger, desc, table, resource.NewResolver(db, desc), maxLimit)
	create, update := decoders(validate)
	return resource.NewEndpoints(logger, service, cache, create, update)
}

// MountRoutes registers the rent-roll routes.
func MountRoutes(r chi.Router, e *resource.Endpoints[RentRoll]) {
	r.Route("/rent-rolls", func(r chi.Router) {
		e.Mount(r)
	})
}
