package properties

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/resource"
)

type CreatePropertyRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	AddressLine1  string   `json:"address_line1" validate:"required,max=200"`
	City          *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State         *string  `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode    *string  `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	PropertyType  string   `json:"property_type" validate:"required,oneof=single_family multi_family condo townhouse commercial land"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	PurchaseDate  *string  `json:"purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CurrentValue  *float64 `json:"current_value,omitempty" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r CreatePropertyRequest) columns() map[string]any {
	cols := map[string]any{
		"name":          r.Name,
		"address_line1": r.AddressLine1,
		"property_type": r.PropertyType,
	}
	putOptional(cols, "city", r.City)
	putOptional(cols, "state", r.State)
	putOptional(cols, "postal_code", r.PostalCode)
	putOptional(cols, "purchase_price", r.PurchasePrice)
	putOptional(cols, "purchase_date", r.PurchaseDate)
	putOptional(cols, "current_value", r.CurrentValue)
	putOptional(cols, "notes", r.Notes)
	return cols
}

type UpdatePropertyRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	AddressLine1  *string  `json:"address_line1,omitempty" validate:"omitempty,max=200"`
	City          *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State         *string  `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode    *string  `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	PropertyType  *string  `json:"property_type,omitempty" validate:"omitempty,oneof=single_family multi_family condo townhouse commercial land"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	PurchaseDate  *string  `json:"purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CurrentValue  *float64 `json:"current_value,omitempty" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r UpdatePropertyRequest) columns() map[string]any {
	cols := map[string]any{}
	putOptional(cols, "name", r.Name)
	putOptional(cols, "address_line1", r.AddressLine1)
	putOptional(cols, "city", r.City)
	putOptional(cols, "state", r.State)
	putOptional(cols, "postal_code", r.PostalCode)
	putOptional(cols, "property_type", r.PropertyType)
	putOptional(cols, "purchase_price", r.PurchasePrice)
	putOptional(cols, "purchase_date", r.PurchaseDate)
	putOptional(cols, "current_value", r.CurrentValue)
	putOptional(cols, "notes", r.Notes)
	return cols
}

func putOptional[T any](cols map[string]any, key string, value *T) {
	if value != nil {
		cols[key] = *value
	}
}

func decoders(v *validator.Validate) (create, update resource.Decoder) {
	create = func(r *http.Request) (map[string]any, error) {
		var req CreatePropertyRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, httpx.NewValidationError("invalid JSON body", nil)
		}
		if err := v.Struct(req); err != nil {
			return nil, resource.InvalidFields(err)
		}
		return req.columns(), nil
	}
	update = func(r *http.Request) (map[string]any, error) {
		var req UpdatePropertyRequest
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
