package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	gomail "github.com/wneessen/go-mail"

	"auth_backend/internal/platform/config"
)

// Sender delivers an already rendered HTML email.
type Sender interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	client *gomail.Client
}

// NewSMTPSender builds an SMTP client from cfg. No connection is made until Send.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	}
	if cfg.Port != 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPSender{client: client}, nil
}

// Send dials the relay and delivers one message.
func (s *SMTPSender) Send(ctx context.Context, from, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender is a Sender that logs the email to the logger instead of sending it.
// Not meant for production use: it logs addresses and the full message, codes included.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the email to the logger.
func (s *LogSender) Send(_ context.Context, from, to, subject, body string) error {
	s.logger.Info("send email",
		"from", from,
		"recipient", to,
		"subject", subject,
		"body", body,
	)
	return nil
}

// Message is an email captured by MemorySender.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// MemorySender keeps sent emails in memory. Err, when set, is returned by Send.
type MemorySender struct {
	mu     sync.Mutex
	emails []Message
	Err    error
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (s *MemorySender) Send(_ context.Context, from, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.emails = append(s.emails, Message{From: from, To: to, Subject: subject, Body: body})
	return nil
}

// Emails returns a copy of every captured email.
func (s *MemorySender) Emails() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.emails...)
}
