package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmalov/auth_service/internal/hash"
	"github.com/kmalov/auth_service/internal/models"
)

// CreateUser provisions an account. There is no public registration
// endpoint; accounts come from operators, migrations and test fixtures.
func (s *AuthService) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		PasswordHash: pwHash,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
