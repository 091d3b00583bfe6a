// Package resource implements the ownership-scoped access layer shared by
// every API resource: descriptor-driven query building, ownership
// resolution, the list-response cache, and the orchestrating service.
package resource

// FilterKind selects how a recognized query parameter maps to a predicate.
type FilterKind int

const (
	// FilterEquals matches a column exactly.
	FilterEquals FilterKind = iota
	// FilterDateFrom lower-bounds a date column (inclusive).
	FilterDateFrom
	// FilterDateTo upper-bounds a date column (inclusive).
	FilterDateTo
	// FilterSearch matches a case-insensitive substring across the
	// descriptor's search columns.
	FilterSearch
)

// FilterField declares one recognized query parameter for a resource.
type FilterField struct {
	Param  string
	Column string
	Kind   FilterKind
}

// OwnerPath is one hop pattern from a row to its owning user. A path with
// an empty ParentTable is direct: Column on the row holds the user id. A
// path with a ParentTable joins through Column to the parent row and
// compares ParentOwnerColumn there.
type OwnerPath struct {
	Column            string
	ParentTable       string
	ParentOwnerColumn string
}

// Direct reports whether the path compares a column on the row itself.
func (p OwnerPath) Direct() bool { return p.ParentTable == "" }

// CacheScope controls how mutations invalidate the list cache.
type CacheScope int

const (
	// CacheScopePrincipal invalidates only the mutating principal's
	// entries. Other principals may observe staleness up to the TTL.
	CacheScopePrincipal CacheScope = iota
	// CacheScopeResource wipes the whole resource namespace, used where
	// admin mutations affect what every caller sees.
	CacheScopeResource
)

// UniqueRule declares a uniqueness constraint on caller-controlled columns.
// The store checks it inside the insert transaction so the caller gets a
// conflict instead of a raw store rejection.
type UniqueRule struct {
	Columns []string
}

// Descriptor is the static per-resource configuration driving the access
// layer. Built once at start-up, immutable afterwards.
type Descriptor struct {
	// Name keys cache entries and appears in error messages.
	Name string
	// Table is the backing relation.
	Table string
	// Columns are the selected columns, matching the model's db tags.
	Columns []string
	// OwnerPaths lists the ways a row can resolve to an owning user. Any
	// resolving path authorizes; the shape is per-resource configuration.
	OwnerPaths []OwnerPath
	// CreateOwnerColumn, when set, is forced to the principal id on every
	// insert so a row can never be created for another user.
	CreateOwnerColumn string
	// Filters is the allow-list of recognized query parameters.
	Filters []FilterField
	// SearchColumns are matched by FilterSearch parameters.
	SearchColumns []string
	// SortFields maps sort parameter values to columns.
	SortFields map[string]string
	// DefaultSort is the column ordered on when no sort is requested.
	DefaultSort string
	// SoftDelete folds a deleted_at IS NULL predicate into every query
	// and makes deletes mark instead of remove.
	SoftDelete bool
	// Unique, when set, is enforced transactionally around inserts.
	Unique *UniqueRule
	// BeforeWrite, when set, adjusts the column map of every insert and
	// update after validation and before the store call.
	BeforeWrite func(changes map[string]any)
	// CacheScope controls mutation-driven invalidation.
	CacheScope CacheScope
}

// ParentPath returns the first joining owner path, if the resource has one.
func (d Descriptor) ParentPath() (OwnerPath, bool) {
	for _, p := range d.OwnerPaths {
		if !p.Direct() {
			return p, true
		}
	}
	return OwnerPath{}, false
}
