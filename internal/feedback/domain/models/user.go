package models

// Role is the closed set of user roles.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	FullName     string `json:"full_name"` //nolint:tagliatelle
	ManagerID    *int   `json:"manager_id,omitempty"` //nolint:tagliatelle
}
