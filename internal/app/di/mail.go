package di

import (
	"log/slog"

	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/mail"
)

// NewMailSender returns an SMTP sender when a mail host is configured and a
// logging sender otherwise.
func NewMailSender(cfg *config.Config, logger *slog.Logger) (mail.Sender, error) {
	if cfg.Mail.Enabled() {
		return mail.NewSMTPSender(cfg.Mail)
	}
	if cfg.IsProduction() {
		logger.Warn("MAIL_HOST is not set; verification emails will only be logged")
	}
	return mail.NewLogSender(logger), nil
}
