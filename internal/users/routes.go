package users

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/auth"
	"github.com/brickfolio/brickfolio/internal/resource"
)

// Descriptor is the access-layer configuration for users. A user owns
// exactly their own row (the owner column is the id itself), and admin
// mutations invalidate the whole resource namespace since provisioning
// affects what admins see.
func Descriptor() resource.Descriptor {
	return resource.Descriptor{
		Name:  "users",
		Table: "users",
		Columns: []string{
			"id", "email", "full_name", "role", "created_at", "updated_at",
		},
		OwnerPaths: []resource.OwnerPath{{Column: "id"}},
		Filters: []resource.FilterField{
			{Param: "role", Column: "role", Kind: resource.FilterEquals},
			{Param: "search", Kind: resource.FilterSearch},
		},
		SearchColumns: []string{"email", "full_name"},
		SortFields: map[string]string{
			"created_at": "created_at",
			"email":      "email",
		},
		DefaultSort: "created_at",
		SoftDelete:  true,
		CacheScope:  resource.CacheScopeResource,
	}
}

// NewEndpoints wires the user endpoints.
func NewEndpoints(logger *slog.Logger, db resource.DB, cache *resource.Cache, validate *validator.Validate, maxLimit int) *resource.Endpoints[User] {
	desc := Descriptor()
	table := resource.NewTable[User](db, desc)
	service := resource.NewService(logger, desc, table, resource.NewResolver(db, desc), maxLimit)
	create, update := decoders(validate)
	return resource.NewEndpoints(logger, service, cache, create, update)
}

// MountRoutes registers the user routes. List, create and delete are admin
// operations; get and update are open and scoped to the caller's own row
// by the ownership resolver.
func MountRoutes(r chi.Router, e *resource.Endpoints[User]) {
	r.Route("/users", func(r chi.Router) {
		r.With(auth.RequireAdmin).Get("/", e.List)
		r.With(auth.RequireAdmin).Post("/", e.Create)
		r.Get("/{id}", e.Get)
		r.Patch("/{id}", e.Update)
		r.With(auth.RequireAdmin).Delete("/{id}", e.Delete)
	})
}
