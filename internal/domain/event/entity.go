package event

import (
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
)

type Type string

const (
	TypeCheckin        Type = "checkin"
	TypeCheckout       Type = "checkout"
	TypeLunchStart     Type = "lunch_start"
	TypeLunchEnd       Type = "lunch_end"
	TypeMiniBreakStart Type = "mini_break_start"
	TypeMiniBreakEnd   Type = "mini_break_end"
)

// Event is one immutable entry in a workday's transition log. Events are
// only ever appended, never mutated or deleted.
type Event struct {
	ID         string
	EmployeeID string
	WorkdayID  string
	Type       Type
	OccurredAt time.Time
	Status     workday.Status
	Meta       map[string]any
	CreatedAt  time.Time
}
