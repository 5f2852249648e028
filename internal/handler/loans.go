package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/koliada1973/credit-service/internal/credit"
	"github.com/koliada1973/credit-service/internal/models"
	"github.com/koliada1973/credit-service/internal/service"
)

type calculatorRequest struct {
	Principal  credit.Cents `json:"principal"`
	DailyRate  float64      `json:"daily_rate"`
	TermMonths int          `json:"term_months"`
	StartDate  models.Date  `json:"start_date"`
	DueDay     int          `json:"due_day"`
}

type scheduleRow struct {
	Period              int          `json:"period"`
	DueDate             models.Date  `json:"due_date"`
	Days                int          `json:"days"`
	InstallmentPaid     credit.Cents `json:"installment_paid"`
	InterestAccrued     credit.Cents `json:"interest_accrued"`
	InterestDebtPaid    credit.Cents `json:"interest_debt_paid"`
	InterestPaid        credit.Cents `json:"interest_paid"`
	InterestDebtCarried credit.Cents `json:"interest_debt_carried"`
	PrincipalPaid       credit.Cents `json:"principal_paid"`
	PrincipalBalance    credit.Cents `json:"principal_balance"`
	TotalOutstanding    credit.Cents `json:"total_outstanding"`
}

type planResponse struct {
	Installment credit.Cents  `json:"installment"`
	Schedule    []scheduleRow `json:"schedule"`
	TotalPaid   credit.Cents  `json:"total_paid"`
	Overpayment credit.Cents  `json:"overpayment"`
}

func toScheduleRows(schedule []credit.PeriodResult) []scheduleRow {
	rows := make([]scheduleRow, 0, len(schedule))
	for _, p := range schedule {
		rows = append(rows, scheduleRow{
			Period:              p.Period,
			DueDate:             models.DateOf(p.DueDate),
			Days:                p.Days,
			InstallmentPaid:     p.InstallmentPaid,
			InterestAccrued:     p.InterestAccrued,
			InterestDebtPaid:    p.InterestDebtPaid,
			InterestPaid:        p.InterestPaid,
			InterestDebtCarried: p.InterestDebtCarried,
			PrincipalPaid:       p.PrincipalPaid,
			PrincipalBalance:    p.PrincipalBalance,
			TotalOutstanding:    p.TotalOutstanding,
		})
	}
	return rows
}

func toPlanResponse(plan *credit.Plan) planResponse {
	return planResponse{
		Installment: plan.Installment,
		Schedule:    toScheduleRows(plan.Schedule),
		TotalPaid:   plan.TotalPaid,
		Overpayment: plan.Overpayment,
	}
}

// Calculate proposes a flat installment and schedule for the submitted terms
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculatorRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.svc.ProposeSchedule(r.Context(), credit.Terms{
		Principal:  req.Principal,
		DailyRate:  req.DailyRate,
		TermMonths: req.TermMonths,
		StartDate:  req.StartDate.Time,
		DueDay:     req.DueDay,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// CreateLoan originates a loan for a client (staff only)
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLoanInput
	if !h.decode(w, r, &req) {
		return
	}

	loan, plan, err := h.svc.CreateLoan(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"loan": loan,
		"plan": toPlanResponse(plan),
	})
}

// ListLoans returns the caller's loans, or all loans for staff
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListLoans(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if loans == nil {
		loans = []models.Loan{}
	}
	h.writeJSON(w, http.StatusOK, loans)
}

// GetLoan returns one loan with its regenerated schedule
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	loan, borrower, schedule, err := h.svc.GetLoan(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"loan":     loan,
		"borrower": borrower,
		"schedule": toScheduleRows(schedule),
	})
}

type recordPaymentRequest struct {
	Amount credit.Cents `json:"amount"`
	Date   models.Date  `json:"date"`
}

// RecordPayment applies a payment to a loan (staff only)
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	payment, err := h.svc.RecordPayment(r.Context(), id, req.Amount, req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, payment)
}

// ListPayments returns a loan's payment history
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.ListPayments(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	h.writeJSON(w, http.StatusOK, payments)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid loan id"})
		return 0, false
	}
	return id, true
}
