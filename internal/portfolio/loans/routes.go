package loans

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/resource"
)

// Descriptor is the access-layer configuration for loans. Loans carry two
// owner paths: through the property and through their own user column, so
// a loan remains reachable by its owner even when held against a property
// managed on the owner's behalf.
func Descriptor() resource.Descriptor {
	return resource.Descriptor{
		Name:  "loans",
		Table: "loans",
		Columns: []string{
			"id", "property_id", "user_id", "lender", "loan_type",
			"original_amount", "current_balance", "interest_rate",
			"term_months", "start_date", "monthly_payment",
			"created_at", "updated_at",
		},
		OwnerPaths: []resource.OwnerPath{
			{Column: "property_id", ParentTable: "properties", ParentOwnerColumn: "user_id"},
			{Column: "user_id"},
		},
		CreateOwnerColumn: "user_id",
		Filters: []resource.FilterField{
			{Param: "property_id", Column: "property_id", Kind: resource.FilterEquals},
			{Param: "lender", Column: "lender", Kind: resource.FilterEquals},
			{Param: "loan_type", Column: "loan_type", Kind: resource.FilterEquals},
		},
		SortFields: map[string]string{
			"created_at":      "created_at",
			"current_balance": "current_balance",
			"interest_rate":   "interest_rate",
		},
		DefaultSort: "created_at",
		SoftDelete:  true,
	}
}

// NewEndpoints wires the loan endpoints.
func NewEndpoints(logger *slog.Logger, db resource.DB, cache *resource.Cache, validate *validator.Validate, maxLimit int) *resource.Endpoints[Loan] {
	desc := Descriptor()
	table := resource.NewTable[Loan](db, desc)
	service := resource.NewService(logger, desc, table, resource.NewResolver(db, desc), maxLimit)
	create, update := decoders(validate)
	return resource.NewEndpoints(logger, service, cache, create, update)
}

// MountRoutes registers the loan routes.
func MountRoutes(r chi.Router, e *resource.Endpoints[Loan]) {
	r.Route("/loans", func(r chi.Router) {
		e.Mount(r)
	})
}
