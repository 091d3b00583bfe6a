package rentroll

import (
	"testing"
)

func strptr(s string) *string { return &s }

func TestVacantUnitDropsTenantData(t *testing.T) {
	name := "Jane Tenant"
	start := "2025-01-01"
	end := "2025-12-31"
	req := UpdateRentRollRequest{
		OccupancyStatus: strptr(StatusVacant),
		TenantName:      &name,
		LeaseStartDate:  &start,
		LeaseEndDate:    &end,
	}

	cols := req.columns()
	clearTenantOnVacancy(cols)

	for _, key := range []string{"tenant_name", "lease_start_date", "lease_end_date"} {
		v, ok := cols[key]
		if !ok {
			t.Fatalf("%s must be present so the column is nulled, not skipped", key)
		}
		if v != nil {
			t.Fatalf("%s should be nil for a vacant unit, got %v", key, v)
		}
	}
	if cols["occupancy_status"] != StatusVacant {
		t.Fatalf("status must survive: %v", cols["occupancy_status"])
	}
}

func TestOccupiedUnitKeepsTenantData(t *testing.T) {
	name := "Jane Tenant"
	req := UpdateRentRollRequest{
		OccupancyStatus: strptr(StatusOccupied),
		TenantName:      &name,
	}

	cols := req.columns()
	clearTenantOnVacancy(cols)

	if cols["tenant_name"] != name {
		t.Fatalf("tenant data must survive for occupied units: %v", cols["tenant_name"])
	}
}

func TestStatusUnchangedLeavesColumnsAlone(t *testing.T) {
	name := "Jane Tenant"
	req := UpdateRentRollRequest{TenantName: &name}

	cols := req.columns()
	clearTenantOnVacancy(cols)

	if cols["tenant_name"] != name {
		t.Fatalf("no status in the patch means no clearing: %v", cols["tenant_name"])
	}
	if _, ok := cols["lease_start_date"]; ok {
		t.Fatal("untouched columns must stay out of the patch")
	}
}

func TestCreateVacantWithTenantDataIsCleared(t *testing.T) {
	name := "Jane Tenant"
	req := CreateRentRollRequest{
		PropertyID:      "2c9a3cbb-9f5e-4a93-9b19-2cf0f2a8a111",
		UnitNumber:      "2B",
		OccupancyStatus: StatusVacant,
		TenantName:      &name,
	}

	cols := req.columns()
	clearTenantOnVacancy(cols)

	if cols["tenant_name"] != nil {
		t.Fatalf("vacant create must not carry tenant data: %v", cols["tenant_name"])
	}
	if cols["unit_number"] != "2B" {
		t.Fatalf("unit number must survive: %v", cols["unit_number"])
	}
}
