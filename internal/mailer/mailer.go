package mailer

import (
	"fmt"

	"github.com/go-gomail/gomail"

	"telehealth-server/internal/config"
)

// Mailer delivers transactional mail. Delivery is fire-and-forget from the
// booking workflow's perspective; failures are logged by the caller and never
// affect the booking outcome.
type Mailer interface {
	SendAppointmentConfirmation(to, recipientName, summary string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg config.MailerConfig
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.MailerConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Enabled reports whether an SMTP host is configured.
func (m *SMTPMailer) Enabled() bool {
	return m.cfg.Host != ""
}

// SendAppointmentConfirmation sends a plain-text booking confirmation.
func (m *SMTPMailer) SendAppointmentConfirmation(to, recipientName, summary string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.DefaultFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Appointment confirmation")
	msg.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\n%s\n", recipientName, summary))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending confirmation mail: %w", err)
	}
	return nil
}
