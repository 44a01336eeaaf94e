package user

import (
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Role         string  `json:"role"`
	IsActive     bool    `json:"is_active"`
	FlexMode     bool    `json:"flex_mode"`
	LastCheckin  *string `json:"last_checkin,omitempty"`
	LastCheckout *string `json:"last_checkout,omitempty"`
	LastDay      *string `json:"last_day,omitempty"`
}

type ListEmployeesFilter struct {
	Search          string
	Page            int
	PageSize        int
	IncludeInactive bool
}

type ListEmployeesResponse struct {
	Items      []EmployeeResponse `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalItems int64              `json:"total_items"`
	TotalPages int                `json:"total_pages"`
}

type CreateEmployeeRequest struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	PIN      *string `json:"pin"`
	IsActive *bool   `json:"is_active"`
	FlexMode bool    `json:"flex_mode"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "valid email is required"})
	}
	if r.Password == nil && r.PIN == nil {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password or pin is required"})
	}
	if r.PIN != nil && !validator.IsValidPIN(*r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "pin must be 4-8 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID       string  `json:"-"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
	FlexMode *bool   `json:"flex_mode"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "valid email is required"})
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name cannot be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResetSecretRequest struct {
	ID       string  `json:"-"`
	Password *string `json:"password"`
	PIN      *string `json:"pin"`
}

func (r *ResetSecretRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Password == nil && r.PIN == nil {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password or pin is required"})
	}
	if r.PIN != nil && !validator.IsValidPIN(*r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "pin must be 4-8 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
