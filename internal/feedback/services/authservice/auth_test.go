package authservice_test

import (
	"context"
	"testing"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	"github.com/Leopold1975/feedback_control/internal/feedback/repository/userrepo"
	"github.com/Leopold1975/feedback_control/internal/feedback/services/authservice"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	return u, nil
}

func (f *fakeUserRepo) SeedUsers(_ context.Context, users []models.User) error {
	for _, u := range users {
		if _, ok := f.users[u.Username]; !ok {
			f.users[u.Username] = u
		}
	}

	return nil
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.users["manager1"] = models.User{
		ID:           1,
		Username:     "manager1",
		PasswordHash: string(hash),
		Role:         models.RoleManager,
		FullName:     "Alice Johnson",
	}

	as := authservice.New(repo)

	u, err := as.Authenticate(context.Background(), "manager1", "password123")
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.Equal(t, models.RoleManager, u.Role)
	require.Equal(t, "Alice Johnson", u.FullName)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.users["manager1"] = models.User{
		ID:           1,
		Username:     "manager1",
		PasswordHash: string(hash),
		Role:         models.RoleManager,
		FullName:     "Alice Johnson",
	}

	as := authservice.New(repo)

	_, err = as.Authenticate(context.Background(), "manager1", "hunter2")
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	as := authservice.New(newFakeUserRepo())

	_, err := as.Authenticate(context.Background(), "nobody", "password123")
	require.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestEnsureDemoUsers(t *testing.T) {
	repo := newFakeUserRepo()
	as := authservice.New(repo)

	require.NoError(t, as.EnsureDemoUsers(context.Background()))
	require.Len(t, repo.users, 6)

	// Seeded hashes must verify against the documented demo password.
	u, err := as.Authenticate(context.Background(), "employee1", "password123")
	require.NoError(t, err)
	require.Equal(t, models.RoleEmployee, u.Role)
	require.NotNil(t, u.ManagerID)
	require.Equal(t, 1, *u.ManagerID)
}

func TestEnsureDemoUsersIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	as := authservice.New(repo)

	require.NoError(t, as.EnsureDemoUsers(context.Background()))

	before := repo.users["manager2"]

	require.NoError(t, as.EnsureDemoUsers(context.Background()))
	require.Len(t, repo.users, 6)
	require.Equal(t, before, repo.users["manager2"])
}
