package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/avjabalpur/cian-erp-sub001/internal/shared"
	"github.com/avjabalpur/cian-erp-sub001/internal/users"
)

// Service verifies user credentials.
type Service struct {
	users users.Repository
}

// NewService constructs a Service.
func NewService(repo users.Repository) *Service {
	return &Service{users: repo}
}

// Authenticate checks email and password against the user store. Inactive
// accounts and unknown emails fail identically to avoid account probing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}
