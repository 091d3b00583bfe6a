package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/shared"
)

// unit is the row type the access-layer tests run on. The layer itself is
// resource-agnostic; one representative shape is enough.
type unit struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

type memStore struct {
	rows    []unit
	deleted map[string]bool
	inserts []map[string]any
	updates []map[string]any
}

func newMemStore(rows ...unit) *memStore {
	return &memStore{rows: rows, deleted: map[string]bool{}}
}

func (m *memStore) visible(spec Spec) []unit {
	var out []unit
	for _, r := range m.rows {
		if m.deleted[r.ID] {
			continue
		}
		if spec.OwnerID != "" && r.OwnerID != spec.OwnerID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *memStore) Select(ctx context.Context, spec Spec) ([]unit, error) {
	vis := m.visible(spec)
	from, to := spec.Params.OffsetRange()
	if from >= len(vis) {
		return nil, nil
	}
	if to >= len(vis) {
		to = len(vis) - 1
	}
	return vis[from : to+1], nil
}

func (m *memStore) Count(ctx context.Context, spec Spec) (int, error) {
	return len(m.visible(spec)), nil
}

func (m *memStore) Get(ctx context.Context, id string) (unit, error) {
	for _, r := range m.rows {
		if r.ID == id && !m.deleted[id] {
			return r, nil
		}
	}
	return unit{}, fmt.Errorf("%w: units %s", httpx.ErrNotFound, id)
}

func (m *memStore) Insert(ctx context.Context, values map[string]any) (unit, error) {
	m.inserts = append(m.inserts, values)
	row := unit{ID: uuid.NewString()}
	if v, ok := values["id"].(string); ok {
		row.ID = v
	}
	if v, ok := values["owner_id"].(string); ok {
		row.OwnerID = v
	}
	if v, ok := values["name"].(string); ok {
		row.Name = v
	}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memStore) Update(ctx context.Context, id string, changes map[string]any) (unit, error) {
	m.updates = append(m.updates, changes)
	for i, r := range m.rows {
		if r.ID == id && !m.deleted[id] {
			if v, ok := changes["name"].(string); ok {
				m.rows[i].Name = v
			}
			return m.rows[i], nil
		}
	}
	return unit{}, fmt.Errorf("%w: units %s", httpx.ErrNotFound, id)
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	for _, r := range m.rows {
		if r.ID == id && !m.deleted[id] {
			m.deleted[id] = true
			return nil
		}
	}
	return fmt.Errorf("%w: units %s", httpx.ErrNotFound, id)
}

// fakeAuth resolves ownership from static maps, mirroring the Resolver
// contract: unreadable rows are missing, unattachable parents are forbidden.
type fakeAuth struct {
	owners  map[string]string
	parents map[string]string
}

func (f *fakeAuth) CanRead(ctx context.Context, principal shared.Principal, id string) error {
	if principal.IsAdmin() {
		return nil
	}
	if f.owners[id] == principal.ID {
		return nil
	}
	return fmt.Errorf("%w: units %s", httpx.ErrNotFound, id)
}

func (f *fakeAuth) CanAttach(ctx context.Context, principal shared.Principal, parentID string) error {
	if principal.IsAdmin() {
		return nil
	}
	if f.parents[parentID] == principal.ID {
		return nil
	}
	return fmt.Errorf("%w: properties does not belong to you", httpx.ErrForbidden)
}

func unitDescriptor() Descriptor {
	return Descriptor{
		Name:              "units",
		Table:             "units",
		Columns:           []string{"id", "owner_id", "name"},
		OwnerPaths:        []OwnerPath{{Column: "owner_id"}},
		CreateOwnerColumn: "owner_id",
		SortFields:        map[string]string{"name": "name"},
		DefaultSort:       "created_at",
		SoftDelete:        true,
	}
}

func seedUnits(owner string, n int) []unit {
	rows := make([]unit, n)
	for i := range rows {
		rows[i] = unit{ID: uuid.NewString(), OwnerID: owner, Name: fmt.Sprintf("unit-%02d", i+1)}
	}
	return rows
}

var (
	alice = shared.Principal{ID: uuid.NewString(), Role: "owner"}
	bob   = shared.Principal{ID: uuid.NewString(), Role: "owner"}
	root  = shared.Principal{ID: uuid.NewString(), Role: "admin"}
)

func newUnitService(store Store[unit], owners Authorizer) *Service[unit] {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), unitDescriptor(), store, owners, 100)
}

func TestListPaginationMeta(t *testing.T) {
	store := newMemStore(seedUnits(alice.ID, 25)...)
	svc := newUnitService(store, &fakeAuth{})

	rows, meta, err := svc.List(context.Background(), alice, url.Values{"page": {"2"}, "limit": {"10"}})
	require.NoError(t, err)
	require.Len(t, rows, 10)
	require.Equal(t, shared.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, meta)
	require.Equal(t, "unit-11", rows[0].Name)
	require.Equal(t, "unit-20", rows[9].Name)
}

func TestListPastTheEndIsEmptyNotError(t *testing.T) {
	store := newMemStore(seedUnits(alice.ID, 5)...)
	svc := newUnitService(store, &fakeAuth{})

	rows, meta, err := svc.List(context.Background(), alice, url.Values{"page": {"9"}, "limit": {"10"}})
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
	require.Equal(t, 5, meta.Total)
	require.Equal(t, 1, meta.TotalPages)
}

func TestListScopesToPrincipal(t *testing.T) {
	rows := append(seedUnits(alice.ID, 3), seedUnits(bob.ID, 2)...)
	store := newMemStore(rows...)
	svc := newUnitService(store, &fakeAuth{})

	mine, meta, err := svc.List(context.Background(), alice, url.Values{})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	require.Equal(t, 3, meta.Total)
	for _, r := range mine {
		require.Equal(t, alice.ID, r.OwnerID)
	}

	all, meta, err := svc.List(context.Background(), root, url.Values{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	require.Equal(t, 5, meta.Total)
}

func TestGetForeignRowIsNotFound(t *testing.T) {
	row := unit{ID: uuid.NewString(), OwnerID: bob.ID, Name: "bobs"}
	store := newMemStore(row)
	svc := newUnitService(store, &fakeAuth{owners: map[string]string{row.ID: bob.ID}})

	_, err := svc.Get(context.Background(), alice, row.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	got, err := svc.Get(context.Background(), bob, row.ID)
	require.NoError(t, err)
	require.Equal(t, row, got)

	got, err = svc.Get(context.Background(), root, row.ID)
	require.NoError(t, err)
	require.Equal(t, row, got)
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc := newUnitService(newMemStore(), &fakeAuth{})
	_, err := svc.Get(context.Background(), alice, "42")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateForcesOwnerColumn(t *testing.T) {
	store := newMemStore()
	svc := newUnitService(store, &fakeAuth{})

	row, err := svc.Create(context.Background(), alice, map[string]any{
		"name":     "attic",
		"owner_id": bob.ID, // must be overridden
	})
	require.NoError(t, err)
	require.Equal(t, alice.ID, row.OwnerID)
	require.Equal(t, alice.ID, store.inserts[0]["owner_id"])
}

func TestCreateUnderForeignParentIsForbidden(t *testing.T) {
	parentID := uuid.NewString()
	desc := unitDescriptor()
	desc.OwnerPaths = []OwnerPath{{Column: "property_id", ParentTable: "properties", ParentOwnerColumn: "user_id"}}
	store := newMemStore()
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), desc, store, &fakeAuth{parents: map[string]string{parentID: bob.ID}}, 100)

	_, err := svc.Create(context.Background(), alice, map[string]any{
		"property_id": parentID,
		"name":        "attic",
	})
	require.ErrorIs(t, err, httpx.ErrForbidden)
	require.Empty(t, store.inserts, "ownership failure must precede the insert")

	_, err = svc.Create(context.Background(), bob, map[string]any{
		"property_id": parentID,
		"name":        "attic",
	})
	require.NoError(t, err)
}

func TestCreateRequiresParentID(t *testing.T) {
	desc := unitDescriptor()
	desc.OwnerPaths = []OwnerPath{{Column: "property_id", ParentTable: "properties", ParentOwnerColumn: "user_id"}}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), desc, newMemStore(), &fakeAuth{}, 100)

	_, err := svc.Create(context.Background(), alice, map[string]any{"name": "attic"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateAppliesBeforeWrite(t *testing.T) {
	desc := unitDescriptor()
	desc.BeforeWrite = func(changes map[string]any) {
		changes["name"] = "normalized"
	}
	store := newMemStore()
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), desc, store, &fakeAuth{}, 100)

	row, err := svc.Create(context.Background(), alice, map[string]any{"name": "RAW"})
	require.NoError(t, err)
	require.Equal(t, "normalized", row.Name)
}

func TestUpdateForeignRowIsNotFound(t *testing.T) {
	row := unit{ID: uuid.NewString(), OwnerID: bob.ID, Name: "bobs"}
	store := newMemStore(row)
	svc := newUnitService(store, &fakeAuth{owners: map[string]string{row.ID: bob.ID}})

	_, err := svc.Update(context.Background(), alice, row.ID, map[string]any{"name": "mine now"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Empty(t, store.updates, "ownership failure must precede the write")
}

func TestUpdateEmptyPatchIsValidationError(t *testing.T) {
	row := unit{ID: uuid.NewString(), OwnerID: alice.ID}
	svc := newUnitService(newMemStore(row), &fakeAuth{owners: map[string]string{row.ID: alice.ID}})

	_, err := svc.Update(context.Background(), alice, row.ID, map[string]any{})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	row := unit{ID: uuid.NewString(), OwnerID: alice.ID, Name: "attic"}
	store := newMemStore(row)
	svc := newUnitService(store, &fakeAuth{owners: map[string]string{row.ID: alice.ID}})

	require.NoError(t, svc.Delete(context.Background(), alice, row.ID))

	err := svc.Delete(context.Background(), alice, row.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Get(context.Background(), alice, row.ID)
	require.True(t, errors.Is(err, httpx.ErrNotFound), "deleted rows must stay invisible to reads")
}
