package main

import (
	"golang.org/x/exp/slog"
	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers a single transactional message. Delivery is always
// best-effort for callers: a failed send is logged, never propagated into a
// request's response.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.SMTPUser,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer stands in when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	slog.Info("Mail suppressed, no SMTP relay configured", "to", to, "subject", subject)

	return nil
}

func NewMailer(cfg Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}

	return NewSMTPMailer(cfg)
}
