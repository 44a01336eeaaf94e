package auth

import (
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

// Secret returns the credential presented: password when non-empty, else PIN.
func (r *LoginRequest) Secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.PIN
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "valid email is required"})
	}
	if r.Secret() == "" {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password or pin is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginUser struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expires_at"`
	User      LoginUser `json:"user"`
}
