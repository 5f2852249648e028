package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/koliada1973/credit-service/internal/credit"
	"github.com/koliada1973/credit-service/internal/models"
)

// Store is the subset of the repository the reminder job needs.
type Store interface {
	ListOpenLoans(ctx context.Context) ([]models.Loan, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Mailer sends the reminder emails.
type Mailer interface {
	SendPaymentReminder(to, username string, dueDate time.Time, installment, outstanding credit.Cents, isOverdue bool) error
}

// Scheduler runs the daily payment-reminder job.
type Scheduler struct {
	cron         *cron.Cron
	store        Store
	mailer       Mailer
	log          *logrus.Logger
	reminderDays int
}

// New creates a scheduler that reminds borrowers reminderDays before a due
// date and nags when the due date has passed.
func New(store Store, mailer Mailer, log *logrus.Logger, reminderDays int) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		store:        store,
		mailer:       mailer,
		log:          log,
		reminderDays: reminderDays,
	}
}

// Start registers the daily job at 09:00 and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 9 * * *", s.SendReminders); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Payment reminder scheduler started")
	return nil
}

// Stop halts the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// SendReminders emails every borrower whose next due date falls within the
// reminder window or has already passed.
func (s *Scheduler) SendReminders() {
	ctx := context.Background()
	loans, err := s.store.ListOpenLoans(ctx)
	if err != nil {
		s.log.Errorf("Failed to list open loans for reminders: %v", err)
		return
	}

	today := models.DateOf(time.Now().UTC())
	sent := 0
	for _, loan := range loans {
		nextDue := credit.NextDueDate(loan.LastPaymentDate.Time, loan.DueDay)
		daysUntil := int(nextDue.Sub(today.Time) / (24 * time.Hour))
		overdue := daysUntil < 0
		if !overdue && daysUntil > s.reminderDays {
			continue
		}

		user, err := s.store.FindUserByID(ctx, loan.UserID)
		if err != nil {
			s.log.Errorf("Failed to load user %d for loan %s: %v", loan.UserID, loan.Number, err)
			continue
		}

		outstanding := loan.State().TotalOutstanding()
		if err := s.mailer.SendPaymentReminder(user.Email, user.Username, nextDue,
			loan.Installment, outstanding, overdue); err != nil {
			s.log.Errorf("Failed to remind user %d about loan %s: %v", user.ID, loan.Number, err)
			continue
		}
		sent++
	}

	s.log.Infof("Payment reminders sent: %d of %d open loans", sent, len(loans))
}
