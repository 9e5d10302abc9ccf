// Package mail dispatches outbound email over SMTP. The Sender interface is
// what the rest of the application depends on; tests substitute a fake.
package mail

import (
	"fmt"
	"net/smtp"

	"blognest/internal/config"
)

// Sender dispatches a single email.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a plain-auth SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     from,
	}
}

// Send composes and delivers the message.
func (s *SMTPSender) Send(to, subject, body string) error {
	if s.username == "" || s.password == "" {
		return fmt.Errorf("email credentials not configured")
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		s.from, to, subject, body))

	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// ResetEmailBody renders the plain-text password-reset message.
func ResetEmailBody(link string) string {
	return fmt.Sprintf(`To reset your password, click the following link:
%s

If you did not make this request, please ignore this email and no changes will be made.
`, link)
}
