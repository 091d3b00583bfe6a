package users

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/resource"
	"github.com/brickfolio/brickfolio/internal/shared"
)

type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=320"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Role     string  `json:"role" validate:"required,oneof=owner viewer admin"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=owner viewer admin"`
}

func decoders(v *validator.Validate) (create, update resource.Decoder) {
	create = func(r *http.Request) (map[string]any, error) {
		var req CreateUserRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, httpx.NewValidationError("invalid JSON body", nil)
		}
		if err := v.Struct(req); err != nil {
			return nil, resource.InvalidFields(err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		cols := map[string]any{
			"email":         req.Email,
			"password_hash": string(hash),
			"role":          req.Role,
		}
		if req.FullName != nil {
			cols["full_name"] = *req.FullName
		}
		return cols, nil
	}
	update = func(r *http.Request) (map[string]any, error) {
		var req UpdateUserRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, httpx.NewValidationError("invalid JSON body", nil)
		}
		if err := v.Struct(req); err != nil {
			return nil, resource.InvalidFields(err)
		}
		cols := map[string]any{}
		if req.FullName != nil {
			cols["full_name"] = *req.FullName
		}
		if req.Role != nil {
			// Only admins may move an account between roles; everyone
			// else edits their profile fields only.
			principal, _ := shared.PrincipalFromContext(r.Context())
			if !principal.IsAdmin() {
				return nil, fmt.Errorf("%w: only admins may change roles", httpx.ErrForbidden)
			}
			cols["role"] = *req.Role
		}
		return cols, nil
	}
	return create, update
}
