package models

import (
	"time"

	"github.com/koliada1973/credit-service/internal/credit"
)

// Loan represents a loan in the system: the immutable origination terms plus
// the running state mutated once per recorded payment.
type Loan struct {
	ID         int64        `json:"id"`
	Number     string       `json:"number"`
	UserID     int64        `json:"user_id"`
	Principal  credit.Cents `json:"principal"`
	DailyRate  float64      `json:"daily_rate"`
	TermMonths int          `json:"term_months"`
	StartDate  Date         `json:"start_date"`
	DueDay     int          `json:"due_day"`
	Purpose    string       `json:"purpose,omitempty"`
	Note       string       `json:"note,omitempty"`

	// Chosen by the planner at origination.
	Installment credit.Cents `json:"installment"`

	// Running state.
	PrincipalBalance credit.Cents `json:"principal_balance"`
	InterestDebt     credit.Cents `json:"interest_debt"`
	LastPaymentDate  Date         `json:"last_payment_date"`
	Closed           bool         `json:"closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terms rebuilds the planner input from the stored loan.
func (l *Loan) Terms() credit.Terms {
	return credit.Terms{
		Principal:  l.Principal,
		DailyRate:  l.DailyRate,
		TermMonths: l.TermMonths,
		StartDate:  l.StartDate.Time,
		DueDay:     l.DueDay,
	}
}

// State rebuilds the allocator input from the stored loan.
func (l *Loan) State() credit.State {
	return credit.State{
		PrincipalBalance: l.PrincipalBalance,
		InterestDebt:     l.InterestDebt,
		LastPaymentDate:  l.LastPaymentDate.Time,
		Closed:           l.Closed,
	}
}

// ApplyState copies an allocator result back onto the loan.
func (l *Loan) ApplyState(s credit.State) {
	l.PrincipalBalance = s.PrincipalBalance
	l.InterestDebt = s.InterestDebt
	l.LastPaymentDate = DateOf(s.LastPaymentDate)
	l.Closed = s.Closed
}
