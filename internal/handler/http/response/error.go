package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/report"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")

	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAccountDisabled):
		Forbidden(w, "Account is disabled")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	case errors.Is(err, report.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
