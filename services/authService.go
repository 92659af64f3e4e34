package services

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/ececomak/Dental-Appointment/models"
	"github.com/ececomak/Dental-Appointment/repositories"
)

// ErrBadCredentials is returned for any login failure; it deliberately does
// not reveal whether the account exists.
var ErrBadCredentials = errors.New("invalid email or password")

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Authenticate verifies the credentials and returns the account.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.UserAccount, error) {
	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return account, nil
}
