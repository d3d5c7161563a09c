package authservice

import (
	"context"
	"fmt"

	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
	"golang.org/x/crypto/bcrypt"
)

type demoAccount struct {
	id        int
	username  string
	password  string
	role      models.Role
	fullName  string
	managerID *int
}

func intPtr(v int) *int { return &v }

// Two managers and four employees, two reports each.
var demoAccounts = []demoAccount{
	{1, "manager1", "password123", models.RoleManager, "Alice Johnson", nil},
	{2, "manager2", "password123", models.RoleManager, "Bob Smith", nil},
	{3, "employee1", "password123", models.RoleEmployee, "Charlie Brown", intPtr(1)},
	{4, "employee2", "password123", models.RoleEmployee, "Diana Wilson", intPtr(1)},
	{5, "employee3", "password123", models.RoleEmployee, "Eve Davis", intPtr(2)},
	{6, "employee4", "password123", models.RoleEmployee, "Frank Miller", intPtr(2)},
}

// EnsureDemoUsers seeds the fixed demo accounts on startup. Passwords are
// stored as bcrypt hashes; existing rows by id are left untouched.
func (as *AuthService) EnsureDemoUsers(ctx context.Context) error {
	users := make([]models.User, 0, len(demoAccounts))

	for _, acc := range demoAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("generate from password error: %w", err)
		}

		users = append(users, models.User{
			ID:           acc.id,
			Username:     acc.username,
			PasswordHash: string(hash),
			Role:         acc.role,
			FullName:     acc.fullName,
			ManagerID:    acc.managerID,
		})
	}

	if err := as.userRepo.SeedUsers(ctx, users); err != nil {
		return fmt.Errorf("seed users error: %w", err)
	}

	return nil
}
