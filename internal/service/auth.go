package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmalov/auth_service/internal/events"
	"github.com/kmalov/auth_service/internal/hash"
	"github.com/kmalov/auth_service/internal/logging"
	"github.com/kmalov/auth_service/internal/mail"
	"github.com/kmalov/auth_service/internal/models"
	"github.com/kmalov/auth_service/internal/repo"
	"github.com/kmalov/auth_service/internal/tokens"
)

const tokenTypeBearer = "bearer"

type AuthService struct {
	Repo     *repo.GormRepo
	Producer events.Publisher
	Mailer   mail.Mailer

	JWTSecret []byte
	TokenTTL  time.Duration
	Debug     bool

	// Now is the time source for issuing and validating tokens.
	// Tests override it; nil falls back to time.Now.
	Now func() time.Time
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	User        *models.User
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown email: %w", ErrCredentials)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	ok, err := hash.CheckPassword(user.PasswordHash, password)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "stored hash unreadable", "error", err)
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("wrong password: %w", ErrCredentials)
	}

	if user.IsBanned {
		return nil, fmt.Errorf("user %s: %w", user.ID, ErrBanned)
	}

	signed, claims, err := tokens.Issue(user.ID, s.JWTSecret, s.TokenTTL, s.now())
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":    events.TypeUserLoggedIn,
		"user_id": user.ID,
		"email":   user.Email,
		"jti":     claims.ID,
	})

	return &LoginResult{AccessToken: signed, TokenType: tokenTypeBearer, User: user}, nil
}

// Authenticate resolves a raw bearer token to its user. Checks run in a
// fixed order: signature and expiry, then the revocation denylist, then
// subject resolution, then the live ban flag. The ban flag is read fresh
// from the database so a ban takes effect before outstanding tokens expire.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.User, *tokens.AccessClaims, error) {
	claims, err := tokens.Parse(rawToken, s.JWTSecret, s.now)
	if err != nil {
		return nil, nil, fmt.Errorf("parse token: %v: %w", err, ErrCredentials)
	}

	revoked, err := s.Repo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, fmt.Errorf("token %s revoked: %w", claims.ID, ErrCredentials)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, fmt.Errorf("bad subject: %w", ErrCredentials)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("unknown subject: %w", ErrCredentials)
		}
		return nil, nil, err
	}

	if user.IsBanned {
		return nil, nil, fmt.Errorf("user %s: %w", user.ID, ErrBanned)
	}

	return user, claims, nil
}

// Logout puts the token's jti on the denylist. Revoking the same token
// twice is a no-op.
func (s *AuthService) Logout(ctx context.Context, user *models.User, claims *tokens.AccessClaims) error {
	if err := s.Repo.RevokeToken(ctx, claims.ID, user.ID, claims.ExpiresAt.Time.Unix()); err != nil {
		return err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":    events.TypeTokenRevoked,
		"user_id": user.ID,
		"jti":     claims.ID,
	})

	return nil
}

// publish sends an audit event and never fails the calling operation.
func (s *AuthService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", events.TopicUserEvents, "error", err)
	}
}
