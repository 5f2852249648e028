package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/koliada1973/credit-service/internal/config"
	"github.com/koliada1973/credit-service/internal/credit"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendPaymentReminder sends a payment reminder email
func (s *Sender) SendPaymentReminder(to, username string, dueDate time.Time, installment, outstanding credit.Cents, isOverdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if isOverdue {
		e.Subject = "Overdue Loan Payment Notification"
	} else {
		e.Subject = "Upcoming Loan Payment Reminder"
	}

	// Format email body
	body := fmt.Sprintf(
		"Dear %s,\n\n", username,
	)
	if isOverdue {
		body += fmt.Sprintf(
			"Your loan payment of %s UAH was due on %s and is now overdue.\n"+
				"Your total outstanding debt is %s UAH.\n"+
				"Please make the payment as soon as possible to avoid further interest debt.\n",
			installment, dueDate.Format("2006-01-02"), outstanding,
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your loan payment of %s UAH is due on %s.\n"+
				"Please ensure sufficient funds are available.\n",
			installment, dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nCredit Service"
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
