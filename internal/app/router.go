package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brickfolio/brickfolio/internal/auth"
	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/portfolio/expenses"
	"github.com/brickfolio/brickfolio/internal/portfolio/loans"
	"github.com/brickfolio/brickfolio/internal/portfolio/properties"
	"github.com/brickfolio/brickfolio/internal/portfolio/rentroll"
	"github.com/brickfolio/brickfolio/internal/resource"
	"github.com/brickfolio/brickfolio/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger      *slog.Logger
	Config      *Config
	AuthHandler *auth.Handler
	AuthService *auth.Service

	Properties *resource.Endpoints[properties.Property]
	Loans      *resource.Endpoints[loans.Loan]
	RentRolls  *resource.Endpoints[rentroll.RentRoll]
	Expenses   *resource.Endpoints[expenses.Expense]
	Users      *resource.Endpoints[users.User]
}

// NewRouter constructs the chi.Router with the Brickfolio defaults: public
// health and token endpoints, everything else behind bearer auth.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Logger, params.Config) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.Write(w, http.StatusOK, httpx.Message("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(params.AuthService))
			properties.MountRoutes(r, params.Properties)
			loans.MountRoutes(r, params.Loans)
			rentroll.MountRoutes(r, params.RentRolls)
			expenses.MountRoutes(r, params.Expenses)
			users.MountRoutes(r, params.Users)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Write(w, http.StatusNotFound, httpx.NotFound("route not found"))
	})

	return r
}
