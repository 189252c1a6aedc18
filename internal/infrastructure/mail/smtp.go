package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"storefront-api/internal/ports"

	"gopkg.in/gomail.v2"
)

const gmailHost = "smtp.gmail.com"

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers email over SMTP.
type SMTPSender struct {
	dialer dialer
	from   string
	host   string
}

// NewSMTPSender creates an SMTP mailer. Gmail gets its known-good transport
// settings: smtp.gmail.com on 587 with STARTTLS, or implicit TLS on 465.
func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	host = strings.TrimSpace(strings.ToLower(host))
	if host == "gmail" || host == "gmail.com" {
		host = gmailHost
	}

	d := gomail.NewDialer(host, port, user, pass)
	if host == gmailHost {
		if port != 465 {
			d.Port = 587
		}
		d.SSL = d.Port == 465
		d.TLSConfig = &tls.Config{ServerName: gmailHost, MinVersion: tls.VersionTLS12}
	}

	if from == "" {
		from = user
	}
	return &SMTPSender{dialer: d, from: from, host: host}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, email *ports.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	msg.SetBody("text/html", email.HTML)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email via smtp %s: %w", s.host, err)
	}
	return nil
}
