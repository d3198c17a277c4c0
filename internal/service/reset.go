package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmalov/auth_service/internal/events"
	"github.com/kmalov/auth_service/internal/hash"
	"github.com/kmalov/auth_service/internal/logging"
	"github.com/kmalov/auth_service/internal/tokens"
)

// RequestPasswordReset stores a fresh reset identifier on the account and
// mails it to the user. Requesting again overwrites the previous
// identifier, so only the latest link works. The identifier stays on the
// account even when delivery fails; it has no expiry of its own.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.request_reset")

	user, err := s.Repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no account for email: %w", ErrNotFound)
		}
		l.Error("request_reset_failed", "status", 500, "error", err)
		return err
	}

	if user.IsBanned {
		return fmt.Errorf("user %s: %w", user.ID, ErrBanned)
	}

	resetToken := uuid.New()
	if err := s.Repo.SetResetUUID(ctx, user.ID, resetToken); err != nil {
		l.Error("request_reset_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Mailer.SendPasswordReset(ctx, user.Email, resetToken); err != nil {
		if s.Debug {
			l.Debug("reset_token_issued", "email", user.Email, "reset_token", resetToken.String())
		}
		l.Error("reset_email_failed", "status", 502, "email", user.Email, "error", err)
		return fmt.Errorf("send reset email: %w", ErrDelivery)
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":    events.TypePasswordResetRequested,
		"user_id": user.ID,
		"email":   user.Email,
	})

	return nil
}

// ResetPassword consumes a reset identifier, swaps in the new credential
// and logs the user straight in with a fresh token.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken uuid.UUID, newPassword string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	user, err := s.Repo.GetUserByResetUUID(ctx, resetToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reset token not found: %w", ErrNotFound)
		}
		l.Error("reset_password_failed", "status", 500, "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		l.Error("reset_password_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	if err := s.Repo.CompletePasswordReset(ctx, user.ID, pwHash); err != nil {
		l.Error("reset_password_failed", "status", 500, "error", err)
		return nil, err
	}

	signed, claims, err := tokens.Issue(user.ID, s.JWTSecret, s.TokenTTL, s.now())
	if err != nil {
		l.Error("reset_password_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":    events.TypePasswordResetCompleted,
		"user_id": user.ID,
		"jti":     claims.ID,
	})

	return &LoginResult{AccessToken: signed, TokenType: tokenTypeBearer}, nil
}
