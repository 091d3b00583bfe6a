package properties

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/resource"
)

// Descriptor is the access-layer configuration for properties. Properties
// are the ownership root: a single direct path to the user column.
func Descriptor() resource.Descriptor {
	return resource.Descriptor{
		Name:  "properties",
		Table: "properties",
		Columns: []string{
			"id", "user_id", "name", "address_line1", "city", "state",
			"postal_code", "property_type", "purchase_price", "purchase_date",
			"current_value", "notes", "created_at", "updated_at",
		},
		OwnerPaths:        []resource.OwnerPath{{Column: "user_id"}},
		CreateOwnerColumn: "user_id",
		Filters: []resource.FilterField{
			{Param: "city", Column: "city", Kind: resource.FilterEquals},
			{Param: "state", Column: "state", Kind: resource.FilterEquals},
			{Param: "property_type", Column: "property_type", Kind: resource.FilterEquals},
			{Param: "search", Kind: resource.FilterSearch},
		},
		SearchColumns: []string{"name", "address_line1"},
		SortFields: map[string]string{
			"created_at":    "created_at",
			"name":          "name",
			"current_value": "current_value",
		},
		DefaultSort: "created_at",
		SoftDelete:  true,
	}
}

// NewEndpoints wires the property endpoints.
func NewEndpoints(logger *slog.Logger, db resource.DB, cache *resource.Cache, validate *validator.Validate, maxLimit int) *resource.Endpoints[Property] {
	desc := Descriptor()
	table := resource.NewTable[Property](db, desc)
	service := resource.NewService(logger, desc, table, resource.NewResolver(db, desc), maxLimit)
	create, update := decoders(validate)
	return resource.NewEndpoints(logger, service, cache, create, update)
}

// MountRoutes registers the property routes.
func MountRoutes(r chi.Router, e *resource.Endpoints[Property]) {
	r.Route("/properties", func(r chi.Router) {
		e.Mount(r)
	})
}
