package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	"github.com/Leopold1975/feedback_control/internal/feedback/repository/userrepo"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong
// password, so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	userRepo Repository
}

type Repository interface {
	GetUserByUsername(context.Context, string) (models.User, error)
	SeedUsers(context.Context, []models.User) error
}

func New(userRepo Repository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// Authenticate resolves per-request basic credentials to a user record.
// There is no session or token state: every call hits the store.
func (as *AuthService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	u, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return u, nil
}
