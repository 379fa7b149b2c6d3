// Package mail sends notification emails over SMTP. Delivery is best effort:
// the caller records the outcome but never fails a request on it.
package mail

import (
	"errors"

	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP host is set. Callers record the
// delivery as skipped rather than failed.
var ErrNotConfigured = errors.New("smtp not configured")

// Sender delivers a rendered message
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// SMTPSender sends mail through a configured SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender. host may be empty; Send then reports
// ErrNotConfigured.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	s := &SMTPSender{from: from}
	if host != "" {
		s.dialer = gomail.NewDialer(host, port, username, password)
	}
	return s
}

func (s *SMTPSender) Send(to, subject, htmlBody, textBody string) error {
	if s.dialer == nil {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}
