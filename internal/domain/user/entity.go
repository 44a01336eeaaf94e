package user

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// User is an account in the employee directory. FlexMode exempts the
// employee from every lateness/break-limit rule the engine enforces.
type User struct {
	ID           string
	Email        string
	FullName     string
	Phone        *string
	Role         Role
	IsActive     bool
	FlexMode     bool
	PasswordHash *string
	PinHash      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
