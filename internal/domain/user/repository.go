package user

import (
	"context"
)

// UserRepository defines data access for the employee directory.
type UserRepository interface {
	// Create inserts a new user and returns it with generated fields set.
	Create(ctx context.Context, u User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// ListEmployees returns EMPLOYEE-role users matching the filter plus the
	// unpaginated total.
	ListEmployees(ctx context.Context, filter ListEmployeesFilter) ([]User, int64, error)

	// ListActiveEmployees returns every active EMPLOYEE-role user. Used by
	// the auto-rules sweep and the live overview.
	ListActiveEmployees(ctx context.Context) ([]User, error)

	Update(ctx context.Context, u User) error

	// SetSecret replaces the password and/or PIN hashes. Nil leaves a hash
	// untouched.
	SetSecret(ctx context.Context, id string, passwordHash, pinHash *string) error

	// Delete deactivates the user, or removes the row entirely when hard.
	Delete(ctx context.Context, id string, hard bool) error
}
