package models

import (
	"time"

	"github.com/koliada1973/credit-service/internal/credit"
)

// Payment is one recorded payment with its full allocation breakdown. Amount
// is what was tendered; Excess is the part that exceeded the total
// outstanding and was not applied.
type Payment struct {
	ID                  string       `json:"id"`
	LoanID              int64        `json:"loan_id"`
	Amount              credit.Cents `json:"amount"`
	Date                Date         `json:"date"`
	DaysElapsed         int          `json:"days_elapsed"`
	InterestAccrued     credit.Cents `json:"interest_accrued"`
	InterestDebtPaid    credit.Cents `json:"interest_debt_paid"`
	InterestPaid        credit.Cents `json:"interest_paid"`
	InterestDebtCarried credit.Cents `json:"interest_debt_carried"`
	PrincipalPaid       credit.Cents `json:"principal_paid"`
	PrincipalBalance    credit.Cents `json:"principal_balance"`
	Excess              credit.Cents `json:"excess"`
	CreatedAt           time.Time    `json:"created_at"`
}
