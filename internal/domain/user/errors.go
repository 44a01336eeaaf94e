package user

import "errors"

var (
	ErrUserNotFound           = errors.New("employee not found")
	ErrEmailExists            = errors.New("email already registered")
	ErrAccountDisabled        = errors.New("account disabled")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
