package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/resource"
)

// Handler exposes token issuance.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler wires the auth handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

// MountRoutes registers the public auth endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/token", h.IssueToken)
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IssueToken exchanges credentials for a bearer token.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, httpx.NewValidationError("invalid JSON body", nil))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteError(w, resource.InvalidFields(err))
		return
	}
	token, err := h.service.IssueToken(r.Context(), req.Email, req.Password)
	if err != nil {
		status, env := httpx.Classify(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("token issuance failed", slog.String("error", httpx.Sanitize(err.Error())))
		}
		httpx.Write(w, status, env)
		return
	}
	httpx.Write(w, http.StatusOK, httpx.OK(token))
}
