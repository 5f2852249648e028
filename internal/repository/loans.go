package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/koliada1973/credit-service/internal/models"
)

const loanColumns = `
	id, number, user_id, principal, daily_rate, term_months, start_date, due_day,
	purpose, note, installment, principal_balance, interest_debt,
	last_payment_date, closed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	loan := &models.Loan{}
	err := row.Scan(
		&loan.ID, &loan.Number, &loan.UserID, &loan.Principal, &loan.DailyRate,
		&loan.TermMonths, &loan.StartDate.Time, &loan.DueDay, &loan.Purpose,
		&loan.Note, &loan.Installment, &loan.PrincipalBalance, &loan.InterestDebt,
		&loan.LastPaymentDate.Time, &loan.Closed, &loan.CreatedAt, &loan.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan: %w", err)
	}
	return loan, nil
}

// CreateLoan stores a new loan, allocating a year-keyed loan number inside
// the same transaction.
func (r *Repository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	year := loan.StartDate.Year()
	var counter int64
	numberQuery := `
		INSERT INTO credit.loan_numbers (year, counter)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET counter = credit.loan_numbers.counter + 1
		RETURNING counter`
	if err := tx.QueryRowContext(ctx, numberQuery, year).Scan(&counter); err != nil {
		return fmt.Errorf("failed to allocate loan number: %w", err)
	}
	loan.Number = fmt.Sprintf("%d-%06d", year, counter)

	insertQuery := `
		INSERT INTO credit.loans (
			number, user_id, principal, daily_rate, term_months, start_date, due_day,
			purpose, note, installment, principal_balance, interest_debt,
			last_payment_date, closed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, insertQuery,
		loan.Number, loan.UserID, loan.Principal, loan.DailyRate, loan.TermMonths,
		loan.StartDate.Time, loan.DueDay, loan.Purpose, loan.Note, loan.Installment,
		loan.PrincipalBalance, loan.InterestDebt, loan.LastPaymentDate.Time, loan.Closed).
		Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit loan creation: %w", err)
	}
	return nil
}

// FindLoanByID retrieves a loan by primary key.
func (r *Repository) FindLoanByID(ctx context.Context, id int64) (*models.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM credit.loans WHERE id = $1`
	return scanLoan(r.db.QueryRowContext(ctx, query, id))
}

// ListLoans returns all loans, open ones first, newest first within a group.
func (r *Repository) ListLoans(ctx context.Context) ([]models.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM credit.loans ORDER BY closed, start_date DESC`
	return r.queryLoans(ctx, query)
}

// ListLoansByUser returns the loans belonging to one user.
func (r *Repository) ListLoansByUser(ctx context.Context, userID int64) ([]models.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM credit.loans WHERE user_id = $1 ORDER BY closed, start_date DESC`
	return r.queryLoans(ctx, query, userID)
}

// ListOpenLoans returns loans that still carry outstanding debt.
func (r *Repository) ListOpenLoans(ctx context.Context) ([]models.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM credit.loans WHERE NOT closed ORDER BY id`
	return r.queryLoans(ctx, query)
}

func (r *Repository) queryLoans(ctx context.Context, query string, args ...any) ([]models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}
