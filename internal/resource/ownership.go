package resource

import (
	"context"
	"fmt"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/shared"
)

// Authorizer answers whether a principal may touch a row. The pgx
// implementation is Resolver; tests substitute fakes.
type Authorizer interface {
	// CanRead authorizes reads, updates and deletes of an existing id. A
	// broken ownership chain is indistinguishable from a missing row.
	CanRead(ctx context.Context, principal shared.Principal, id string) error
	// CanAttach authorizes creating a child under the given parent id. A
	// parent the principal does not own is rejected outright, since the
	// caller named it and no prior existence claim was implied.
	CanAttach(ctx context.Context, principal shared.Principal, parentID string) error
}

// Resolver walks a descriptor's owner paths against the store. Soft-deleted
// rows count as absent on every hop.
type Resolver struct {
	db   DB
	desc Descriptor
}

// NewResolver builds the ownership resolver for a descriptor.
func NewResolver(db DB, desc Descriptor) *Resolver {
	return &Resolver{db: db, desc: desc}
}

// CanRead reports nil when any owner path resolves from the row to the
// principal, and not-found otherwise.
func (r *Resolver) CanRead(ctx context.Context, principal shared.Principal, id string) error {
	if principal.IsAdmin() {
		// The store's own lookup reports missing rows; admins skip the
		// ownership walk entirely.
		return nil
	}
	for _, path := range r.desc.OwnerPaths {
		ok, err := r.pathResolves(ctx, path, id, principal.ID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", httpx.ErrNotFound, r.desc.Name, id)
}

func (r *Resolver) pathResolves(ctx context.Context, path OwnerPath, id, ownerID string) (bool, error) {
	var query string
	if path.Direct() {
		query = fmt.Sprintf(
			"SELECT EXISTS(SELECT 1 FROM %s t WHERE t.id = $1 AND t.%s = $2%s)",
			r.desc.Table, path.Column, r.softDeleteClause("t"))
	} else {
		query = fmt.Sprintf(
			"SELECT EXISTS(SELECT 1 FROM %s t JOIN %s p ON p.id = t.%s WHERE t.id = $1 AND p.%s = $2%s AND p.deleted_at IS NULL)",
			r.desc.Table, path.ParentTable, path.Column, path.ParentOwnerColumn, r.softDeleteClause("t"))
	}
	var ok bool
	if err := r.db.QueryRow(ctx, query, id, ownerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("resolve %s ownership: %w", r.desc.Name, err)
	}
	return ok, nil
}

// CanAttach verifies the named parent row exists, is live, and is owned by
// the principal before anything is written.
func (r *Resolver) CanAttach(ctx context.Context, principal shared.Principal, parentID string) error {
	path, ok := r.desc.ParentPath()
	if !ok {
		return nil
	}
	if principal.IsAdmin() {
		return nil
	}
	query := fmt.Sprintf(
		"SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1 AND %s = $2 AND deleted_at IS NULL)",
		path.ParentTable, path.ParentOwnerColumn)
	var owned bool
	if err := r.db.QueryRow(ctx, query, parentID, principal.ID).Scan(&owned); err != nil {
		return fmt.Errorf("resolve %s parent: %w", r.desc.Name, err)
	}
	if !owned {
		return fmt.Errorf("%w: %s does not belong to you", httpx.ErrForbidden, path.ParentTable)
	}
	return nil
}

func (r *Resolver) softDeleteClause(alias string) string {
	if !r.desc.SoftDelete {
		return ""
	}
	return fmt.Sprintf(" AND %s.deleted_at IS NULL", alias)
}
