package resource

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/shared"
)

// Service orchestrates one resource end to end: query building, ownership
// resolution, store access. Validation and ownership always run before any
// mutating store call; nothing is ever partially committed.
type Service[T any] struct {
	logger   *slog.Logger
	desc     Descriptor
	store    Store[T]
	owners   Authorizer
	maxLimit int
}

// NewService wires the orchestrator for a descriptor.
func NewService[T any](logger *slog.Logger, desc Descriptor, store Store[T], owners Authorizer, maxLimit int) *Service[T] {
	return &Service[T]{logger: logger, desc: desc, store: store, owners: owners, maxLimit: maxLimit}
}

// Descriptor exposes the resource configuration to the endpoint layer.
func (s *Service[T]) Descriptor() Descriptor { return s.desc }

// List returns the principal's page of rows plus pagination metadata. A
// page past the end yields an empty slice with a correct meta block.
func (s *Service[T]) List(ctx context.Context, principal shared.Principal, q url.Values) ([]T, shared.Pagination, error) {
	spec, err := ParseQuery(s.desc, q, s.maxLimit)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	if !principal.IsAdmin() {
		spec.OwnerID = principal.ID
	}

	total, err := s.store.Count(ctx, spec)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	rows, err := s.store.Select(ctx, spec)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, shared.NewPagination(spec.Params.Page, spec.Params.Limit, total), nil
}

// Get fetches a single row the principal owns.
func (s *Service[T]) Get(ctx context.Context, principal shared.Principal, id string) (T, error) {
	var zero T
	if err := s.checkID(id); err != nil {
		return zero, err
	}
	if err := s.owners.CanRead(ctx, principal, id); err != nil {
		return zero, err
	}
	return s.store.Get(ctx, id)
}

// Create inserts a row for the principal. When the resource declares a
// parent, the parent must resolve to a row the principal owns before the
// insert; the check happening first is what prevents cross-tenant rows.
func (s *Service[T]) Create(ctx context.Context, principal shared.Principal, values map[string]any) (T, error) {
	var zero T
	if path, ok := s.desc.ParentPath(); ok {
		parentID, ok := values[path.Column].(string)
		if !ok || parentID == "" {
			return zero, httpx.NewValidationError(
				fmt.Sprintf("%s is required", path.Column), map[string]string{path.Column: "required"})
		}
		if err := s.checkID(parentID); err != nil {
			return zero, err
		}
		if err := s.owners.CanAttach(ctx, principal, parentID); err != nil {
			return zero, err
		}
	}
	if s.desc.CreateOwnerColumn != "" {
		values[s.desc.CreateOwnerColumn] = principal.ID
	}
	if s.desc.BeforeWrite != nil {
		s.desc.BeforeWrite(values)
	}
	return s.store.Insert(ctx, values)
}

// Update patches a row the principal owns. Ownership resolves before the
// write; a row owned by someone else is reported as missing.
func (s *Service[T]) Update(ctx context.Context, principal shared.Principal, id string, changes map[string]any) (T, error) {
	var zero T
	if err := s.checkID(id); err != nil {
		return zero, err
	}
	if len(changes) == 0 {
		return zero, httpx.NewValidationError("no recognized fields to update", nil)
	}
	if err := s.owners.CanRead(ctx, principal, id); err != nil {
		return zero, err
	}
	if s.desc.BeforeWrite != nil {
		s.desc.BeforeWrite(changes)
	}
	return s.store.Update(ctx, id, changes)
}

// Delete marks a row the principal owns as deleted. Repeating the delete
// finds nothing: the row is no longer visible.
func (s *Service[T]) Delete(ctx context.Context, principal shared.Principal, id string) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	if err := s.owners.CanRead(ctx, principal, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service[T]) checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return httpx.NewValidationError("invalid id", map[string]string{"id": "must be a uuid"})
	}
	return nil
}
