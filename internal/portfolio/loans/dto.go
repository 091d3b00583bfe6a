package loans

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/resource"
)

type CreateLoanRequest struct {
	PropertyID     string   `json:"property_id" validate:"required,uuid4"`
	Lender         string   `json:"lender" validate:"required,max=200"`
	LoanType       string   `json:"loan_type" validate:"required,oneof=fixed adjustable interest_only heloc other"`
	OriginalAmount float64  `json:"original_amount" validate:"required,gt=0"`
	CurrentBalance float64  `json:"current_balance" validate:"gte=0"`
	InterestRate   float64  `json:"interest_rate" validate:"gte=0,lte=100"`
	TermMonths     *int     `json:"term_months,omitempty" validate:"omitempty,gt=0,lte=600"`
	StartDate      *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MonthlyPayment *float64 `json:"monthly_payment,omitempty" validate:"omitempty,gte=0"`
}

func (r CreateLoanRequest) columns() map[string]any {
	cols := map[string]any{
		"property_id":     r.PropertyID,
		"lender":          r.Lender,
		"loan_type":       r.LoanType,
		"original_amount": r.OriginalAmount,
		"current_balance": r.CurrentBalance,
		"interest_rate":   r.InterestRate,
	}
	putOptional(cols, "term_months", r.TermMonths)
	putOptional(cols, "start_date", r.StartDate)
	putOptional(cols, "monthly_payment", r.MonthlyPayment)
	return cols
}

type UpdateLoanRequest struct {
	Lender         *string  `json:"lender,omitempty" validate:"omitempty,max=200"`
	LoanType       *string  `json:"loan_type,omitempty" validate:"omitempty,oneof=fixed adjustable interest_only heloc other"`
	CurrentBalance *float64 `json:"current_balance,omitempty" validate:"omitempty,gte=0"`
	InterestRate   *float64 `json:"interest_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	TermMonths     *int     `json:"term_months,omitempty" validate:"omitempty,gt=0,lte=600"`
	StartDate      *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MonthlyPayment *float64 `json:"monthly_payment,omitempty" validate:"omitempty,gte=0"`
}

func (r UpdateLoanRequest) columns() map[string]any {
	cols := map[string]any{}
	putOptional(cols, "lender", r.Lender)
	putOptional(cols, "loan_type", r.LoanType)
	putOptional(cols, "current_balance", r.CurrentBalance)
	putOptional(cols, "interest_rate", r.InterestRate)
	putOptional(cols, "term_months", r.TermMonths)
	putOptional(cols, "start_date", r.StartDate)
	putOptional(cols, "monthly_payment", r.MonthlyPayment)
	return cols
}

func putOptional[T any](cols map[string]any, key string, value *T) {
	if value != nil {
		cols[key] = *value
	}
}

func decoders(v *validator.Validate) (create, update resource.Decoder) {
	create = func(r *http.Request) (map[string]any, error) {
		var req CreateLoanRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, httpx.NewValidationError("invalid JSON body", nil)
		}
		if err := v.Struct(req); err != nil {
			return nil, resource.InvalidFields(err)
		}
		return req.columns(), nil
	}
	update = func(r *http.Request) (map[string]any, error) {
		var req UpdateLoanRequest
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
