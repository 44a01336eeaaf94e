package auth

import "context"

type AuthService interface {
	// Login verifies an email + password-or-PIN pair and issues a JWT.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}
