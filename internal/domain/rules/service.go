package rules

import (
	"context"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
)

// RulesService is the attendance state machine and compensation policy.
// Transition operations validate against the workday's current state, mutate
// the store and event log, recompute totals, and raise incidents. Flex
// employees bypass ordering/limit checks, never raise incidents, and always
// total to zero compensation.
type RulesService interface {
	CheckIn(ctx context.Context, employeeID string, at time.Time, status workday.Status) (CheckInResult, error)

	// CheckOut closes the day. When no check-in exists, a manual check-in
	// time ("HH:MM:SS") is required for non-flex employees and a synthetic
	// check-in is recorded.
	CheckOut(ctx context.Context, employeeID string, at time.Time, status workday.Status, manualCheckinTime *string) (CheckOutResult, error)

	StartLunch(ctx context.Context, employeeID string, at time.Time, status workday.Status) (LunchResult, error)
	EndLunch(ctx context.Context, employeeID string, at time.Time, status workday.Status) (LunchResult, error)

	StartMiniBreak(ctx context.Context, employeeID string, at time.Time, status workday.Status) (MiniBreakStartResult, error)
	EndMiniBreak(ctx context.Context, employeeID string, at time.Time, status workday.Status) (MiniBreakEndResult, error)

	// ApplyAutoRulesForDay forces the lunch and checkout defaults onto a day
	// the employee left open. Idempotent; flex employees are skipped.
	ApplyAutoRulesForDay(ctx context.Context, employeeID string, day time.Time) error
}
