package rentroll

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/resource"
)

type CreateRentRollRequest struct {
	PropertyID      string   `json:"property_id" validate:"required,uuid4"`
	UnitNumber      string   `json:"unit_number" validate:"required,max=50"`
	OccupancyStatus string   `json:"occupancy_status" validate:"required,oneof=occupied vacant notice"`
	TenantName      *string  `json:"tenant_name,omitempty" validate:"omitempty,max=200"`
	LeaseStartDate  *string  `json:"lease_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LeaseEndDate    *string  `json:"lease_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MonthlyRent     *float64 `json:"monthly_rent,omitempty" validate:"omitempty,gte=0"`
	SecurityDeposit *float64 `json:"security_deposit,omitempty" validate:"omitempty,gte=0"`
}

func (r CreateRentRollRequest) columns() map[string]any {
	cols := map[string]any{
		"property_id":      r.PropertyID,
		"unit_number":      r.UnitNumber,
		"occupancy_status": r.OccupancyStatus,
	}
	putOptional(cols, "tenant_name", r.TenantName)
	putOptional(cols, "lease_start_date", r.LeaseStartDate)
	putOptional(cols, "lease_end_date", r.LeaseEndDate)
	putOptional(cols, "monthly_rent", r.MonthlyRent)
	putOptional(cols, "security_deposit", r.SecurityDeposit)
	return cols
}

type UpdateRentRollRequest struct {
	UnitNumber      *string  `json:"unit_number,omitempty" validate:"omitempty,max=50"`
	OccupancyStatus *string  `json:"occupancy_status,omitempty" validate:"omitempty,oneof=occupied vacant notice"`
	TenantName      *string  `json:"tenant_name,omitempty" validate:"omitempty,max=200"`
	LeaseStartDate  *string  `json:"lease_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LeaseEndDate    *string  `json:"lease_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MonthlyRent     *float64 `json:"monthly_rent,omitempty" validate:"omitempty,gte=0"`
	SecurityDeposit *float64 `json:"security_deposit,omitempty" validate:"omitempty,gte=0"`
}

func (r UpdateRentRollRequest) columns() map[string]any {
	cols := map[string]any{}
	putOptional(cols, "unit_number", r.UnitNumber)
	putOptional(cols, "occupancy_status", r.OccupancyStatus)
	putOptional(cols, "tenant_name", r.TenantName)
	putOptional(cols, "lease_start_date", r.LeaseStartDate)
	putOptional(cols, "lease_end_date", r.LeaseEndDate)
	putOptional(cols, "monthly_rent", r.MonthlyRent)
	putOptional(cols, "security_deposit", r.SecurityDeposit)
	return cols
}

func putOptional[T any](cols map[string]any, key string, value *T) {
	if value != nil {
		cols[key] = *value
	}
}

// clearTenantOnVacancy is the referential-integrity policy for vacant
// units: a vacant unit cannot carry tenant data, whatever the caller sent.
func clearTenantOnVacancy(cols map[string]any) {
	status, ok := cols["occupancy_status"].(string)
	if !ok || status != StatusVacant {
		return
	}
	cols["tenant_name"] = nil
	cols["lease_start_date"] = nil
	cols["lease_end_date"] = nil
}

func decoders(v *validator.Validate) (create, update resource.Decoder) {
	create = func(r *http.Request) (map[string]any, error) {
		var req CreateRentRollRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, httpx.NewValidationError("invalid JSON body", nil)
		}
		if err := v.Struct(req); err != nil {
			return nil, resource.InvalidFields(err)
		}
		return req.columns(), nil
	}
	update = func(r *http.Request) (map[string]any, error) {
		var req UpdateRentRollRequest
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
