package expenses

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/resource"
)

// Descriptor is the access-layer configuration for expenses, including the
// date-range filters on the expense date.
func Descriptor() resource.Descriptor {
	return resource.Descriptor{
		Name:  "expenses",
		Table: "expenses",
		Columns: []string{
			"id", "property_id", "category", "amount", "expense_date",
			"vendor", "description", "created_at", "updated_at",
		},
		OwnerPaths: []resource.OwnerPath{
			{Column: "property_id", ParentTable: "properties", ParentOwnerColumn: "user_id"},
		},
		Filters: []resource.FilterField{
			{Param: "property_id", Column: "property_id", Kind: resource.FilterEquals},
			{Param: "category", Column: "category", Kind: resource.FilterEquals},
			{Param: "start_date", Column: "expense_date", Kind: resource.FilterDateFrom},
			{Param: "end_date", Column: "expense_date", Kind: resource.FilterDateTo},
			{Param: "search", Kind: resource.FilterSearch},
		},
		SearchColumns: []string{"vendor", "description"},
		SortFields: map[string]string{
			"created_at":   "created_at",
			"expense_date": "expense_date",
			"amount":       "amount",
		},
		DefaultSort: "expense_date",
		SoftDelete:  true,
	}
}

// NewEndpoints wires the expense endpoints.
func NewEndpoints(logger *slog.Logger, db resource.DB, cache *resource.Cache, validate *validator.Validate, maxLimit int) *resource.Endpoints[Expense] {
	desc := Descriptor()
	table := resource.NewTable[Expense](db, desc)
	service := resource.NewService(logger, desc, table, resource.NewResolver(db, desc), maxLimit)
	create, update := decoders(validate)
	return resource.NewEndpoints(logger, service, cache, create, update)
}

// MountRoutes registers the expense routes.
func MountRoutes(r chi.Router, e *resource.Endpoints[Expense]) {
	r.Route("/expenses", func(r chi.Router) {
		e.Mount(r)
	})
}
