package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/shared"
)

// Decoder turns a validated request body into the column map handed to the
// store. Each resource supplies one for create and one for update.
type Decoder func(r *http.Request) (map[string]any, error)

// Endpoints adapts a Service to HTTP. List responses go through the cache;
// every mutation invalidates the resource's cache entries synchronously
// after the write succeeds and before the response is written.
type Endpoints[T any] struct {
	logger       *slog.Logger
	service      *Service[T]
	cache        *Cache
	decodeCreate Decoder
	decodeUpdate Decoder
}

// NewEndpoints wires the HTTP layer for one resource.
func NewEndpoints[T any](logger *slog.Logger, service *Service[T], cache *Cache, decodeCreate, decodeUpdate Decoder) *Endpoints[T] {
	return &Endpoints[T]{
		logger:       logger,
		service:      service,
		cache:        cache,
		decodeCreate: decodeCreate,
		decodeUpdate: decodeUpdate,
	}
}

// Mount registers the five resource operations on the router.
func (e *Endpoints[T]) Mount(r chi.Router) {
	r.Get("/", e.List)
	r.Post("/", e.Create)
	r.Get("/{id}", e.Get)
	r.Patch("/{id}", e.Update)
	r.Delete("/{id}", e.Delete)
}

// List serves the principal's filtered, sorted, paginated rows, from cache
// when a fresh entry exists for this exact principal and query.
func (e *Endpoints[T]) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
		return
	}

	key := Key(e.service.Descriptor().Name, principal.ID, CanonicalQuery(r.URL.Query()))
	env, status := e.cache.Fetch(r.Context(), key, func(ctx context.Context) (httpx.Envelope, int) {
		rows, meta, err := e.service.List(ctx, principal, r.URL.Query())
		if err != nil {
			return e.fail(r, err)
		}
		return httpx.Paginated(rows, meta), http.StatusOK
	})
	httpx.Write(w, status, env)
}

// Get serves a single owned row.
func (e *Endpoints[T]) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
		return
	}
	row, err := e.service.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		e.writeFail(w, r, err)
		return
	}
	httpx.Write(w, http.StatusOK, httpx.OK(row))
}

// Create inserts a row and invalidates the principal's cached lists.
func (e *Endpoints[T]) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
		return
	}
	values, err := e.decodeCreate(r)
	if err != nil {
		e.writeFail(w, r, err)
		return
	}
	row, err := e.service.Create(r.Context(), principal, values)
	if err != nil {
		e.writeFail(w, r, err)
		return
	}
	e.invalidate(r, principal)
	httpx.Write(w, http.StatusCreated, httpx.OK(row))
}

// Update patches a row and invalidates the principal's cached lists.
func (e *Endpoints[T]) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
		return
	}
	changes, err := e.decodeUpdate(r)
	if err != nil {
		e.writeFail(w, r, err)
		return
	}
	row, err := e.service.Update(r.Context(), principal, chi.URLParam(r, "id"), changes)
	if err != nil {
		e.writeFail(w, r, err)
		return
	}
	e.invalidate(r, principal)
	httpx.Write(w, http.StatusOK, httpx.OK(row))
}

// Delete soft-deletes a row and invalidates the principal's cached lists.
func (e *Endpoints[T]) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
		return
	}
	if err := e.service.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		e.writeFail(w, r, err)
		return
	}
	e.invalidate(r, principal)
	name := e.service.Descriptor().Name
	httpx.Write(w, http.StatusOK, httpx.Message(fmt.Sprintf("%s deleted", name)))
}

// invalidate runs after the write is durable. Its failure is logged and
// swallowed: cache correctness is best effort relative to durability.
func (e *Endpoints[T]) invalidate(r *http.Request, principal shared.Principal) {
	desc := e.service.Descriptor()
	scope := principal.ID
	if desc.CacheScope == CacheScopeResource {
		scope = ""
	}
	if err := e.cache.Invalidate(r.Context(), desc.Name, scope); err != nil {
		e.logger.Warn("cache invalidation failed after write",
			slog.String("resource", desc.Name), slog.String("error", httpx.Sanitize(err.Error())))
	}
}

func (e *Endpoints[T]) fail(r *http.Request, err error) (httpx.Envelope, int) {
	status, env := httpx.Classify(err)
	if status >= http.StatusInternalServerError {
		// Log lines fall under the same redaction rule as response bodies:
		// store errors can embed connection strings.
		e.logger.Error("request failed",
			slog.String("resource", e.service.Descriptor().Name),
			slog.String("path", r.URL.Path),
			slog.String("error", httpx.Sanitize(err.Error())))
	}
	return env, status
}

func (e *Endpoints[T]) writeFail(w http.ResponseWriter, r *http.Request, err error) {
	env, status := e.fail(r, err)
	httpx.Write(w, status, env)
}

// InvalidFields converts validator errors into the field-detail validation
// error surfaced in 422 envelopes. Other errors pass through untouched.
func InvalidFields(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = "failed " + fe.Tag() + " validation"
	}
	return httpx.NewValidationError("invalid request body", details)
}
