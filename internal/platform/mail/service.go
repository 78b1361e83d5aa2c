package mail

import (
	"context"
	"fmt"
	"log/slog"

	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/config"
)

// DefaultFrom is used when neither MAIL_FROM nor MAIL_USER is configured.
const DefaultFrom = "no-reply@example.com"

// Service renders templates and hands the result to a Sender.
type Service struct {
	renderer *TemplateRenderer
	sender   Sender
	from     string
}

// Compile-time check to ensure Service implements usecase.Mailer.
var _ usecase.Mailer = (*Service)(nil)

// NewService creates a mail service. from falls back to DefaultFrom when empty.
func NewService(renderer *TemplateRenderer, sender Sender, from string) *Service {
	if from == "" {
		from = DefaultFrom
	}
	return &Service{renderer: renderer, sender: sender, from: from}
}

// FromAddress picks the sender address: MAIL_FROM, then MAIL_USER, then DefaultFrom.
func FromAddress(cfg config.MailConfig) string {
	switch {
	case cfg.From != "":
		return cfg.From
	case cfg.User != "":
		return cfg.User
	default:
		return DefaultFrom
	}
}

// Send renders template with data and sends it to one recipient.
// A non-empty subject overrides the template's subject.
func (s *Service) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	renderedSubject, body, err := s.renderer.Render(template, data)
	if err != nil {
		slog.Error("failed to render email", "template", template, "error", err)
		return fmt.Errorf("failed to render %s: %w", template, err)
	}
	if subject == "" {
		subject = renderedSubject
	}

	if err := s.sender.Send(ctx, s.from, to, subject, body); err != nil {
		slog.Error("failed to send email", "template", template, "recipient", to, "error", err)
		return err
	}

	slog.Info("email sent", "template", template, "recipient", to)
	return nil
}
