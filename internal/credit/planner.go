package credit

import (
	"fmt"
	"time"
)

// Terms describes a loan offer. Immutable input to the planner.
type Terms struct {
	Principal  Cents
	DailyRate  float64
	TermMonths int
	StartDate  time.Time
	DueDay     int
}

func (t Terms) validate() error {
	if t.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	}
	if t.DailyRate <= 0 {
		return fmt.Errorf("%w: daily rate must be positive", ErrInvalidInput)
	}
	if t.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be positive", ErrInvalidInput)
	}
	if t.DueDay < 1 || t.DueDay > 31 {
		return fmt.Errorf("%w: due day must be between 1 and 31", ErrInvalidInput)
	}
	return nil
}

// PeriodResult is one row of the amortization schedule.
type PeriodResult struct {
	Period              int
	DueDate             time.Time
	Days                int
	InstallmentPaid     Cents
	InterestAccrued     Cents
	InterestDebtPaid    Cents
	InterestPaid        Cents
	InterestDebtCarried Cents
	PrincipalPaid       Cents
	PrincipalBalance    Cents
	TotalOutstanding    Cents
}

// Plan is the outcome of the flat-installment search.
type Plan struct {
	Installment Cents
	Schedule    []PeriodResult
	TotalPaid   Cents
	Overpayment Cents
}

const (
	searchMaxIterations = 200
	searchTolerance     = Cents(1)
)

// simulate runs the whole schedule at a constant installment and returns the
// signed residual (principal plus carried interest debt) after the last
// period. Negative means the installment overshoots.
func simulate(t Terms, installment Cents) Cents {
	balance, debt := t.Principal, Cents(0)
	prev := t.StartDate
	for p := 1; p <= t.TermMonths; p++ {
		due := NextDueDate(prev, t.DueDay)
		balance, debt, _ = step(balance, debt, t.DailyRate, daysBetween(prev, due), installment)
		prev = due
	}
	return balance + debt
}

// FindFlatInstallment searches for the constant monthly installment that
// fully amortizes the loan by the final period and returns the complete
// schedule for it.
//
// The search bisects over [0, 2*principal] cents, stopping when the final
// residual lands within one cent of zero or after the iteration cap. If the
// chosen installment still leaves a positive residual it is bumped by one
// cent, which is always enough to push the residual to zero or below.
func FindFlatInstallment(t Terms) (Plan, error) {
	if err := t.validate(); err != nil {
		return Plan{}, err
	}

	low, high := Cents(0), 2*t.Principal
	pay := (low + high) / 2
	for i := 0; i < searchMaxIterations; i++ {
		residual := simulate(t, pay)
		if residual >= -searchTolerance && residual <= searchTolerance {
			break
		}
		if residual > 0 {
			low = pay
		} else {
			high = pay
		}
		pay = (low + high) / 2
	}

	if simulate(t, pay) > 0 {
		pay++
		if simulate(t, pay) > 0 {
			return Plan{}, ErrSearchDidNotConverge
		}
	}

	schedule, totalPaid := buildSchedule(t, pay)
	return Plan{
		Installment: pay,
		Schedule:    schedule,
		TotalPaid:   totalPaid,
		Overpayment: totalPaid - t.Principal,
	}, nil
}

// Schedule regenerates the full schedule for an already chosen installment.
// It is a pure function of its inputs: identical terms and installment yield
// an identical schedule.
func Schedule(t Terms, installment Cents) ([]PeriodResult, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if installment <= 0 {
		return nil, fmt.Errorf("%w: installment must be positive", ErrInvalidInput)
	}
	rows, _ := buildSchedule(t, installment)
	return rows, nil
}

// buildSchedule records every period row at the given installment. Whenever
// the balance would go negative the installment actually paid is trued up to
// whatever clears the loan, so the final rows never overshoot.
func buildSchedule(t Terms, installment Cents) ([]PeriodResult, Cents) {
	schedule := make([]PeriodResult, 0, t.TermMonths)
	balance, debt := t.Principal, Cents(0)
	prev := t.StartDate
	var totalPaid Cents

	for p := 1; p <= t.TermMonths; p++ {
		due := NextDueDate(prev, t.DueDay)
		days := daysBetween(prev, due)

		var b Breakdown
		balance, debt, b = step(balance, debt, t.DailyRate, days, installment)

		paid := installment
		if balance < 0 {
			paid += balance
			b.PrincipalPaid += balance
			balance = 0
		}
		totalPaid += paid

		schedule = append(schedule, PeriodResult{
			Period:              p,
			DueDate:             due,
			Days:                days,
			InstallmentPaid:     paid,
			InterestAccrued:     b.InterestAccrued,
			InterestDebtPaid:    b.InterestDebtPaid,
			InterestPaid:        b.InterestPaid,
			InterestDebtCarried: debt,
			PrincipalPaid:       b.PrincipalPaid,
			PrincipalBalance:    balance,
			TotalOutstanding:    balance + debt,
		})
		prev = due
	}

	return schedule, totalPaid
}
