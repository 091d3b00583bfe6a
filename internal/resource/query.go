package resource

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/shared"
)

// Op is a predicate operator.
type Op int

const (
	// OpEq compares for equality.
	OpEq Op = iota
	// OpGte lower-bounds (inclusive).
	OpGte
	// OpLte upper-bounds (inclusive).
	OpLte
	// OpILike matches a case-insensitive substring. Multiple columns on
	// the predicate are combined with OR.
	OpILike
)

// Predicate is one filter condition. All predicates of a spec are combined
// with AND; the columns within a single predicate with OR.
type Predicate struct {
	Columns []string
	Op      Op
	Value   any
}

// Eq builds an equality predicate on a single column.
func Eq(column string, value any) Predicate {
	return Predicate{Columns: []string{column}, Op: OpEq, Value: value}
}

// Spec is the resolved combination of filters, sort and pagination for one
// list query, plus the owner scoping applied to non-admin callers.
type Spec struct {
	Predicates []Predicate
	SortColumn string
	Desc       bool
	Params     shared.Params
	// OwnerID restricts results to rows owned by this user through any of
	// the descriptor's owner paths. Empty means unscoped (admin).
	OwnerID string
}

const dateLayout = "2006-01-02"

// ParseQuery validates the recognized query parameters of a list request
// against the descriptor's allow-list and resolves pagination and ordering.
// Unrecognized parameters are ignored; malformed values of recognized ones
// are validation errors.
func ParseQuery(desc Descriptor, q url.Values, maxLimit int) (Spec, error) {
	params, err := shared.ParseParams(q, maxLimit)
	if err != nil {
		return Spec{}, httpx.NewValidationError(err.Error(), nil)
	}

	spec := Spec{Params: params, Desc: params.Desc, SortColumn: desc.DefaultSort}
	if params.Sort != "" {
		column, ok := desc.SortFields[params.Sort]
		if !ok {
			return Spec{}, httpx.NewValidationError(
				fmt.Sprintf("cannot sort %s by %q", desc.Name, params.Sort), nil)
		}
		spec.SortColumn = column
	}

	for _, f := range desc.Filters {
		raw := q.Get(f.Param)
		if raw == "" {
			continue
		}
		switch f.Kind {
		case FilterEquals:
			value := any(raw)
			if isIDColumn(f.Column) {
				id, err := uuid.Parse(raw)
				if err != nil {
					return Spec{}, httpx.NewValidationError(
						fmt.Sprintf("invalid %s", f.Param), map[string]string{f.Param: "must be a uuid"})
				}
				value = id
			}
			spec.Predicates = append(spec.Predicates, Eq(f.Column, value))
		case FilterDateFrom, FilterDateTo:
			day, err := time.Parse(dateLayout, raw)
			if err != nil {
				return Spec{}, httpx.NewValidationError(
					fmt.Sprintf("invalid %s", f.Param), map[string]string{f.Param: "must be YYYY-MM-DD"})
			}
			op := OpGte
			if f.Kind == FilterDateTo {
				op = OpLte
			}
			spec.Predicates = append(spec.Predicates, Predicate{Columns: []string{f.Column}, Op: op, Value: day})
		case FilterSearch:
			if len(desc.SearchColumns) == 0 {
				continue
			}
			spec.Predicates = append(spec.Predicates, Predicate{
				Columns: desc.SearchColumns,
				Op:      OpILike,
				Value:   "%" + raw + "%",
			})
		}
	}

	return spec, nil
}

func isIDColumn(column string) bool {
	return column == "id" || len(column) > 3 && column[len(column)-3:] == "_id"
}
