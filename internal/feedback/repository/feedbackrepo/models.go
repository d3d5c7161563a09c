package feedbackrepo

import "errors"

var (
	ErrNotFound         = errors.New("feedback not found")
	ErrEmployeeNotFound = errors.New("employee not found in team")
)

// ListRequest scopes a feedback listing to one side of the relationship.
// Exactly one of the ids is expected to be set.
type ListRequest struct {
	ManagerID  int
	EmployeeID int
}
