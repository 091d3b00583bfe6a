package resource

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
)

func testDescriptor() Descriptor {
	return Descriptor{
		Name:  "expenses",
		Table: "expenses",
		Columns: []string{
			"id", "property_id", "category", "amount", "expense_date",
			"created_at", "updated_at",
		},
		OwnerPaths: []OwnerPath{
			{Column: "property_id", ParentTable: "properties", ParentOwnerColumn: "user_id"},
		},
		Filters: []FilterField{
			{Param: "property_id", Column: "property_id", Kind: FilterEquals},
			{Param: "category", Column: "category", Kind: FilterEquals},
			{Param: "start_date", Column: "expense_date", Kind: FilterDateFrom},
			{Param: "end_date", Column: "expense_date", Kind: FilterDateTo},
			{Param: "search", Kind: FilterSearch},
		},
		SearchColumns: []string{"vendor", "description"},
		SortFields:    map[string]string{"created_at": "created_at", "amount": "amount"},
		DefaultSort:   "expense_date",
		SoftDelete:    true,
	}
}

func TestParseQueryDefaults(t *testing.T) {
	spec, err := ParseQuery(testDescriptor(), url.Values{}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.SortColumn != "expense_date" || !spec.Desc {
		t.Fatalf("default ordering wrong: %+v", spec)
	}
	if len(spec.Predicates) != 0 {
		t.Fatalf("no filters expected, got %+v", spec.Predicates)
	}
}

func TestParseQueryFilters(t *testing.T) {
	propertyID := uuid.New()
	q := url.Values{
		"property_id": {propertyID.String()},
		"category":    {"repairs"},
		"start_date":  {"2026-01-01"},
		"end_date":    {"2026-06-30"},
		"search":      {"roof"},
		"ignored":     {"whatever"},
	}
	spec, err := ParseQuery(testDescriptor(), q, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Predicates) != 5 {
		t.Fatalf("expected 5 predicates, got %d", len(spec.Predicates))
	}

	byOp := map[Op]int{}
	for _, p := range spec.Predicates {
		byOp[p.Op]++
		if p.Op == OpILike {
			if len(p.Columns) != 2 {
				t.Fatalf("search should span search columns, got %v", p.Columns)
			}
			if p.Value != "%roof%" {
				t.Fatalf("search pattern wrong: %v", p.Value)
			}
		}
	}
	if byOp[OpEq] != 2 || byOp[OpGte] != 1 || byOp[OpLte] != 1 || byOp[OpILike] != 1 {
		t.Fatalf("predicate operators wrong: %v", byOp)
	}
}

func TestParseQueryRejectsBadUUID(t *testing.T) {
	_, err := ParseQuery(testDescriptor(), url.Values{"property_id": {"not-a-uuid"}}, 100)
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryRejectsBadDate(t *testing.T) {
	_, err := ParseQuery(testDescriptor(), url.Values{"start_date": {"January"}}, 100)
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryRejectsUnknownSort(t *testing.T) {
	_, err := ParseQuery(testDescriptor(), url.Values{"sort": {"vendor"}}, 100)
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQuerySortMapping(t *testing.T) {
	spec, err := ParseQuery(testDescriptor(), url.Values{"sort": {"amount"}, "order": {"asc"}}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.SortColumn != "amount" || spec.Desc {
		t.Fatalf("sort mapping wrong: %+v", spec)
	}
}

func TestParseQueryDateValues(t *testing.T) {
	spec, err := ParseQuery(testDescriptor(), url.Values{"start_date": {"2026-02-01"}}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !spec.Predicates[0].Value.(time.Time).Equal(want) {
		t.Fatalf("date parsed wrong: %v", spec.Predicates[0].Value)
	}
}
