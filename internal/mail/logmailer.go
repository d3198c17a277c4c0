package mail

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogMailer writes the reset token to the log instead of sending mail.
// Meant for local development where no SendGrid key is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, recipient string, resetToken uuid.UUID) error {
	m.Logger.Info("password_reset_email",
		"recipient", recipient,
		"reset_token", resetToken.String(),
	)
	return nil
}
