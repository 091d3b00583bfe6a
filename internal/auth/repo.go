package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/resource"
)

// Repository looks up accounts for credential checks.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

type repository struct {
	db resource.DB
}

// NewRepository builds the pgx-backed account lookup.
func NewRepository(db resource.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `SELECT id, email, role, password_hash FROM users WHERE email = $1 AND deleted_at IS NULL`
	var a Account
	err := r.db.QueryRow(ctx, query, email).Scan(&a.ID, &a.Email, &a.Role, &a.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrUnauthorized
		}
		return nil, err
	}
	return &a, nil
}
