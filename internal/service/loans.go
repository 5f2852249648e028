package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/koliada1973/credit-service/internal/credit"
	"github.com/koliada1973/credit-service/internal/models"
	"github.com/koliada1973/credit-service/internal/utils"
)

// Daily rates a loan may be offered at, as fractions (0.0010 = 0.10%/day).
var allowedDailyRates = []float64{0.0008, 0.0010, 0.0012, 0.0015}

// minPrincipal is the smallest loan the business issues, in minor units.
const minPrincipal = credit.Cents(100000)

const planCacheTTL = 24 * time.Hour

// CreateLoanInput carries a validated loan-creation form.
type CreateLoanInput struct {
	UserID     int64        `json:"user_id"`
	Principal  credit.Cents `json:"principal"`
	DailyRate  float64      `json:"daily_rate"`
	TermMonths int          `json:"term_months"`
	StartDate  models.Date  `json:"start_date"`
	DueDay     int          `json:"due_day"`
	Purpose    string       `json:"purpose"`
	Note       string       `json:"note"`
}

func validateTerms(terms credit.Terms) error {
	if terms.Principal < minPrincipal {
		return fmt.Errorf("%w: principal must be at least %s", ErrValidation, minPrincipal)
	}
	allowed := false
	for _, r := range allowedDailyRates {
		if terms.DailyRate == r {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: daily rate %v is not offered", ErrValidation, terms.DailyRate)
	}
	if terms.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be positive", ErrValidation)
	}
	if terms.DueDay < 1 || terms.DueDay > 31 {
		return fmt.Errorf("%w: due day must be between 1 and 31", ErrValidation)
	}
	today := models.DateOf(time.Now().UTC())
	if terms.StartDate.Before(today.Time) {
		return fmt.Errorf("%w: start date must not be in the past", ErrValidation)
	}
	return nil
}

// ProposeSchedule finds the flat installment for the given terms and builds
// the full schedule. Results are cached by the terms tuple; a cache failure
// only costs a recomputation.
func (s *Service) ProposeSchedule(ctx context.Context, terms credit.Terms) (*credit.Plan, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("plan:%d:%.4f:%d:%s:%d",
		terms.Principal, terms.DailyRate, terms.TermMonths,
		terms.StartDate.Format("2006-01-02"), terms.DueDay)

	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			plan := &credit.Plan{}
			if err := json.Unmarshal([]byte(raw), plan); err == nil {
				return plan, nil
			}
			s.log.Warnf("Discarding unreadable cached plan for %s", key)
		}
	}

	plan, err := credit.FindFlatInstallment(terms)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(plan); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), planCacheTTL); err != nil {
				s.log.Warnf("Failed to cache plan for %s: %v", key, err)
			}
		}
	}

	return &plan, nil
}

// CreateLoan originates a loan: validates the terms, runs the planner,
// allocates a loan number and stores the loan with its initial state.
// Staff only.
func (s *Service) CreateLoan(ctx context.Context, input CreateLoanInput) (*models.Loan, *credit.Plan, error) {
	_, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !isStaff(role) {
		return nil, nil, ErrForbidden
	}

	borrower, err := s.store.FindUserByID(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}
	if borrower.IsStaff() {
		return nil, nil, fmt.Errorf("%w: loans are issued to client accounts only", ErrValidation)
	}

	terms := credit.Terms{
		Principal:  input.Principal,
		DailyRate:  input.DailyRate,
		TermMonths: input.TermMonths,
		StartDate:  input.StartDate.Time,
		DueDay:     input.DueDay,
	}
	plan, err := s.ProposeSchedule(ctx, terms)
	if err != nil {
		return nil, nil, err
	}

	state := credit.NewState(input.Principal, input.StartDate.Time)
	loan := &models.Loan{
		UserID:      input.UserID,
		Principal:   input.Principal,
		DailyRate:   input.DailyRate,
		TermMonths:  input.TermMonths,
		StartDate:   input.StartDate,
		DueDay:      input.DueDay,
		Purpose:     input.Purpose,
		Note:        input.Note,
		Installment: plan.Installment,
	}
	loan.ApplyState(state)

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, nil, err
	}

	s.log.Infof("Loan %s created for user %d: %s at %v for %d months",
		loan.Number, loan.UserID, loan.Principal, loan.DailyRate, loan.TermMonths)
	return loan, plan, nil
}

// ListLoans returns all loans for staff and only the caller's own loans for
// clients.
func (s *Service) ListLoans(ctx context.Context) ([]models.Loan, error) {
	userID, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if isStaff(role) {
		return s.store.ListLoans(ctx)
	}
	return s.store.ListLoansByUser(ctx, userID)
}

// GetLoan returns one loan with its borrower and regenerated schedule.
// Clients may only see their own loans. The borrower's tax number is stored
// encrypted and is decrypted here for display.
func (s *Service) GetLoan(ctx context.Context, loanID int64) (*models.Loan, *models.User, []credit.PeriodResult, error) {
	loan, err := s.authorizedLoan(ctx, loanID)
	if err != nil {
		return nil, nil, nil, err
	}

	borrower, err := s.store.FindUserByID(ctx, loan.UserID)
	if err != nil {
		return nil, nil, nil, err
	}
	if borrower.IPN != "" {
		ipn, err := utils.Decrypt(borrower.IPN, s.encryptionKey)
		if err != nil {
			s.log.Errorf("Failed to decrypt IPN for user %d: %v", borrower.ID, err)
			borrower.IPN = ""
		} else {
			borrower.IPN = ipn
		}
	}

	schedule, err := credit.Schedule(loan.Terms(), loan.Installment)
	if err != nil {
		return nil, nil, nil, err
	}
	return loan, borrower, schedule, nil
}

func (s *Service) authorizedLoan(ctx context.Context, loanID int64) (*models.Loan, error) {
	userID, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	loan, err := s.store.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !isStaff(role) && loan.UserID != userID {
		return nil, ErrForbidden
	}
	return loan, nil
}
