// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"
	"net/smtp"

	"github.com/sakif/codescribe/internal/config"
)

// Mailer sends a single message. Services depend on this interface so
// tests can capture outgoing mail without a network.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.cfg.Configured() {
		return fmt.Errorf("mail: smtp credentials not configured")
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		m.cfg.From, to, subject, body))

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: sending to %s: %w", to, err)
	}
	return nil
}

// ResetCodeBody formats the password-reset message. The code expires
// ten minutes after issue.
func ResetCodeBody(code string) string {
	return fmt.Sprintf("Your password reset code is: %s\n\nThis code is valid for 10 minutes.", code)
}
