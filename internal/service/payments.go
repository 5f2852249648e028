package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/koliada1973/credit-service/internal/credit"
	"github.com/koliada1973/credit-service/internal/models"
)

// RecordPayment applies one incoming payment to a loan. The allocation runs
// inside a single transaction holding a row lock on the loan, so the new
// state and the payment record are persisted together or not at all.
// Staff only.
func (s *Service) RecordPayment(ctx context.Context, loanID int64, amount credit.Cents, date models.Date) (*models.Payment, error) {
	_, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !isStaff(role) {
		return nil, ErrForbidden
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}

	payment, err := s.store.RecordPayment(ctx, loanID, func(loan *models.Loan) (*models.Payment, error) {
		if loan.Closed {
			return nil, ErrLoanClosed
		}

		state, breakdown, err := credit.Allocate(loan.State(), loan.DailyRate, amount, date.Time)
		if err != nil {
			return nil, err
		}
		loan.ApplyState(state)

		return &models.Payment{
			ID:                  uuid.NewString(),
			LoanID:              loan.ID,
			Amount:              amount,
			Date:                date,
			DaysElapsed:         breakdown.DaysElapsed,
			InterestAccrued:     breakdown.InterestAccrued,
			InterestDebtPaid:    breakdown.InterestDebtPaid,
			InterestPaid:        breakdown.InterestPaid,
			InterestDebtCarried: breakdown.InterestDebtCarried,
			PrincipalPaid:       breakdown.PrincipalPaid,
			PrincipalBalance:    breakdown.PrincipalBalance,
			Excess:              breakdown.Excess,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Payment %s of %s recorded for loan %d (%d days, %s interest accrued)",
		payment.ID, payment.Amount, loanID, payment.DaysElapsed, payment.InterestAccrued)
	return payment, nil
}

// ListPayments returns a loan's payment history. Clients may only see their
// own loans.
func (s *Service) ListPayments(ctx context.Context, loanID int64) ([]models.Payment, error) {
	if _, err := s.authorizedLoan(ctx, loanID); err != nil {
		return nil, err
	}
	return s.store.ListPaymentsByLoan(ctx, loanID)
}
