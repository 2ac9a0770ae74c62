package mailer

import (
	"fmt"
	"net/smtp"
	"sync"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender sends a single email. Delivery failures are the caller's problem:
// the services downgrade them to logged warnings.
type Sender interface {
	Send(email Email) error
}

// Config holds SMTP connection details.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer is a Sender backed by a plain SMTP submission.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send submits one message. It dials per call; the volume here (order
// confirmations, contact form) does not justify connection pooling.
func (m *SMTPMailer) Send(email Email) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("SMTP host is not configured")
	}

	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + email.To + "\r\n" +
		"Subject: " + email.Subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" + email.Body + "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{email.To}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}
	return nil
}

// Pool sends batches of emails concurrently over a bounded number of
// workers. SendAll blocks until every message has been attempted, so the
// HTTP response still waits for the outcome.
type Pool struct {
	sender  Sender
	workers int
}

// NewPool creates a Pool with the given worker count (minimum 1).
func NewPool(sender Sender, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{sender: sender, workers: workers}
}

// SendAll dispatches the emails across the workers and returns one error slot
// per input, index-aligned. A nil Pool or sender fails every slot.
func (p *Pool) SendAll(emails ...Email) []error {
	errs := make([]error, len(emails))
	if p == nil || p.sender == nil {
		for i := range errs {
			errs[i] = fmt.Errorf("mailer is not configured")
		}
		return errs
	}

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for i := range emails {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = p.sender.Send(emails[i])
		}(i)
	}
	wg.Wait()
	return errs
}
