package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or credentials")
	ErrInvalidToken       = errors.New("invalid or missing token")
)
