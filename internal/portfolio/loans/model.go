// Package loans tracks financing attached to a property.
package loans

import (
	"time"

	"github.com/google/uuid"
)

// Loan is a mortgage or other financing on a property.
type Loan struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	PropertyID     uuid.UUID  `json:"property_id" db:"property_id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	Lender         string     `json:"lender" db:"lender"`
	LoanType       string     `json:"loan_type" db:"loan_type"`
	OriginalAmount float64    `json:"original_amount" db:"original_amount"`
	CurrentBalance float64    `json:"current_balance" db:"current_balance"`
	InterestRate   float64    `json:"interest_rate" db:"interest_rate"`
	TermMonths     *int       `json:"term_months,omitempty" db:"term_months"`
	StartDate      *time.Time `json:"start_date,omitempty" db:"start_date"`
	MonthlyPayment *float64   `json:"monthly_payment,omitempty" db:"monthly_payment"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
