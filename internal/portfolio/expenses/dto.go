package expenses

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/resource"
)

type CreateExpenseRequest struct {
	PropertyID  string  `json:"property_id" validate:"required,uuid4"`
	Category    string  `json:"category" validate:"required,oneof=repairs maintenance taxes insurance utilities management capex other"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	ExpenseDate string  `json:"expense_date" validate:"required,datetime=2006-01-02"`
	Vendor      *string `json:"vendor,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
}

func (r CreateExpenseRequest) columns() map[string]any {
	cols := map[string]any{
		"property_id":  r.PropertyID,
		"category":     r.Category,
		"amount":       r.Amount,
		"expense_date": r.ExpenseDate,
	}
	putOptional(cols, "vendor", r.Vendor)
	putOptional(cols, "description", r.Description)
	return cols
}

type UpdateExpenseRequest struct {
	Category    *string  `json:"category,omitempty" validate:"omitempty,oneof=repairs maintenance taxes insurance utilities management capex other"`
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	ExpenseDate *string  `json:"expense_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Vendor      *string  `json:"vendor,omitempty" validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty"`
}

func (r UpdateExpenseRequest) columns() map[string]any {
	cols := map[string]any{}
	putOptional(cols, "category", r.Category)
	putOptional(cols, "amount", r.Amount)
	putOptional(cols, "expense_date", r.ExpenseDate)
	putOptional(cols, "vendor", r.Vendor)
	putOptional(cols, "description", r.Description)
	return cols
}

func putOptional[T any](cols map[string]any, key string, value *T) {
	if value != nil {
		cols[key] = *value
	}
}

func decoders(v *validator.Validate) (create, update resource.Decoder) {
	create = func(r *http.Request) (map[string]any, error) {
		var req CreateExpenseRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, httpx.NewValidationError("invalid JSON body", nil)
		}
		if err := v.Struct(req); err != nil {
			return nil, resource.InvalidFields(err)
		}
		return req.columns(), nil
	}
	update = func(r *http.Request) (map[string]any, error) {
		var req UpdateExpenseRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, httpx.NewValidationError("invalid JSON body", nil)
		}
		if err := v.Struct(req); err != nil {
			return nil, resource.InvalidFields(err)
		}
		return req.columns(), nil
	}
	return create, update
}
