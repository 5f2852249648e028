package repository

import (
	"context"
	"fmt"

	"github.com/koliada1973/credit-service/internal/models"
)

// PaymentFunc computes the payment record and mutates the loan's running
// state. It runs inside the recording transaction while the loan row is
// locked, so concurrent payments against the same loan are serialized.
type PaymentFunc func(loan *models.Loan) (*models.Payment, error)

// RecordPayment loads the loan under a row lock, applies the allocation and
// persists the updated state together with the payment record. Either both
// are written or neither is.
func (r *Repository) RecordPayment(ctx context.Context, loanID int64, apply PaymentFunc) (*models.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT` + loanColumns + ` FROM credit.loans WHERE id = $1 FOR UPDATE`
	loan, err := scanLoan(tx.QueryRowContext(ctx, query, loanID))
	if err != nil {
		return nil, err
	}

	payment, err := apply(loan)
	if err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE credit.loans
		SET principal_balance = $1, interest_debt = $2, last_payment_date = $3,
			closed = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5`
	if _, err := tx.ExecContext(ctx, updateQuery,
		loan.PrincipalBalance, loan.InterestDebt, loan.LastPaymentDate.Time,
		loan.Closed, loan.ID); err != nil {
		return nil, fmt.Errorf("failed to update loan state: %w", err)
	}

	insertQuery := `
		INSERT INTO credit.payments (
			id, loan_id, amount, pay_date, days_elapsed, interest_accrued,
			interest_debt_paid, interest_paid, interest_debt_carried,
			principal_paid, principal_balance, excess, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err = tx.QueryRowContext(ctx, insertQuery,
		payment.ID, payment.LoanID, payment.Amount, payment.Date.Time,
		payment.DaysElapsed, payment.InterestAccrued, payment.InterestDebtPaid,
		payment.InterestPaid, payment.InterestDebtCarried, payment.PrincipalPaid,
		payment.PrincipalBalance, payment.Excess).
		Scan(&payment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return payment, nil
}

// ListPaymentsByLoan returns a loan's payments in chronological order.
func (r *Repository) ListPaymentsByLoan(ctx context.Context, loanID int64) ([]models.Payment, error) {
	query := `
		SELECT id, loan_id, amount, pay_date, days_elapsed, interest_accrued,
			interest_debt_paid, interest_paid, interest_debt_carried,
			principal_paid, principal_balance, excess, created_at
		FROM credit.payments
		WHERE loan_id = $1
		ORDER BY pay_date, created_at`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p := models.Payment{}
		err := rows.Scan(
			&p.ID, &p.LoanID, &p.Amount, &p.Date.Time, &p.DaysElapsed,
			&p.InterestAccrued, &p.InterestDebtPaid, &p.InterestPaid,
			&p.InterestDebtCarried, &p.PrincipalPaid, &p.PrincipalBalance,
			&p.Excess, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
