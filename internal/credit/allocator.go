package credit

import (
	"fmt"
	"time"
)

// State is the running balance of a live loan. One instance exists per loan
// and is mutated exactly once per accepted payment; concurrent payments
// against the same loan must be serialized by the caller.
type State struct {
	PrincipalBalance Cents
	InterestDebt     Cents
	LastPaymentDate  time.Time
	Closed           bool
}

// NewState initializes the running state at loan origination.
func NewState(principal Cents, startDate time.Time) State {
	return State{
		PrincipalBalance: principal,
		InterestDebt:     0,
		LastPaymentDate:  startDate,
	}
}

// TotalOutstanding is the principal balance plus carried interest debt.
func (s State) TotalOutstanding() Cents {
	return s.PrincipalBalance + s.InterestDebt
}

// Breakdown reports how a single payment was split across the waterfall.
type Breakdown struct {
	DaysElapsed         int   `json:"days_elapsed"`
	InterestAccrued     Cents `json:"interest_accrued"`
	InterestDebtPaid    Cents `json:"interest_debt_paid"`
	InterestPaid        Cents `json:"interest_paid"`
	InterestDebtCarried Cents `json:"interest_debt_carried"`
	PrincipalPaid       Cents `json:"principal_paid"`
	PrincipalBalance    Cents `json:"principal_balance"`
	Excess              Cents `json:"excess"`
}

// step applies one payment against a balance using the fixed waterfall:
// carried interest debt, then interest accrued this period, then principal.
// The principal is not capped here, so the returned balance may go negative
// when the payment overshoots; the planner's search relies on that signed
// residual, while Allocate caps it and reports the excess.
func step(balance, debt Cents, dailyRate float64, days int, payment Cents) (Cents, Cents, Breakdown) {
	accrued := roundCents(float64(balance) * dailyRate * float64(days))
	remaining := payment

	debtPaid := debt
	if remaining < debt {
		debtPaid = remaining
	}
	debt -= debtPaid
	remaining -= debtPaid

	interestPaid := accrued
	if remaining < accrued {
		interestPaid = remaining
		debt += accrued - remaining
	}
	remaining -= interestPaid

	balance -= remaining

	return balance, debt, Breakdown{
		DaysElapsed:         days,
		InterestAccrued:     accrued,
		InterestDebtPaid:    debtPaid,
		InterestPaid:        interestPaid,
		InterestDebtCarried: debt,
		PrincipalPaid:       remaining,
		PrincipalBalance:    balance,
	}
}

// Allocate applies one incoming payment against the loan state and returns
// the new state together with the allocation breakdown. On error the input
// state is returned unchanged.
//
// A payment exceeding the total outstanding never drives the balance
// negative; the unconsumed part is reported in Breakdown.Excess so the caller
// can record what was actually applied.
func Allocate(state State, dailyRate float64, amount Cents, date time.Time) (State, Breakdown, error) {
	if amount <= 0 {
		return state, Breakdown{}, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	days := daysBetween(state.LastPaymentDate, date)
	if days < 0 {
		return state, Breakdown{}, ErrInvalidPaymentDate
	}

	balance, debt, b := step(state.PrincipalBalance, state.InterestDebt, dailyRate, days, amount)
	if balance < 0 {
		b.Excess = -balance
		b.PrincipalPaid += balance
		balance = 0
		b.PrincipalBalance = 0
	}

	next := State{
		PrincipalBalance: balance,
		InterestDebt:     debt,
		LastPaymentDate:  date,
		Closed:           state.Closed || balance == 0,
	}
	return next, b, nil
}
