// Package mailer sends outbound email. Delivery is best-effort throughout:
// callers log failures and move on, nothing upstream retries.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends a single message.
type Mailer interface {
	Send(subject, body, from, to string) error
}

// SMTP implements Mailer over a plain SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
}

var _ Mailer = (*SMTP)(nil)

// NewSMTP creates an SMTP mailer for the given relay. Username and password
// may be empty for an unauthenticated relay (e.g. a local test server).
func NewSMTP(host string, port int, username, password string) *SMTP {
	return &SMTP{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send delivers one plain-text message, dialing a fresh connection each
// time. The worker's volume is a welcome email per registration, so
// connection reuse isn't worth the bookkeeping.
func (s *SMTP) Send(subject, body, from, to string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mailer: sending to %s: %w", to, err)
	}
	return nil
}
