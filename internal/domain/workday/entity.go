package workday

import (
	"time"
)

// Status tags how a transition was recorded.
type Status string

const (
	StatusNormal Status = "normal"
	StatusManual Status = "manual"
	StatusAuto   Status = "auto"
)

// Default working window, used when a workday carries no explicit schedule.
const (
	DefaultScheduledStart = "09:00:00"
	DefaultScheduledEnd   = "17:00:00"
)

// Workday is the daily attendance record for one employee. There is at most
// one per (employee, calendar day); it is created lazily on the first
// check-in or checkout of that day and never deleted.
type Workday struct {
	ID         string
	EmployeeID string
	Day        time.Time

	CheckinAt      *time.Time
	CheckinStatus  *Status
	CheckoutAt     *time.Time
	CheckoutStatus *Status
	LunchStart     *time.Time
	LunchEnd       *time.Time
	LunchStatus    *Status

	LateMinutes             int
	BreakTotalMinutes       int
	CompensationMinutes     int
	CompensationWorkMinutes int

	ScheduledStart string
	ScheduledEnd   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State is the workday's position in the attendance state machine, derived
// from which timestamps are present.
type State int

const (
	NotStarted State = iota
	CheckedIn
	OnLunch
	CheckedOut
)

func (s State) String() string {
	switch s {
	case CheckedIn:
		return "checked_in"
	case OnLunch:
		return "on_lunch"
	case CheckedOut:
		return "checked_out"
	default:
		return "not_started"
	}
}

// State derives the machine state from the stored fields. Mini-breaks are an
// orthogonal sub-state tracked in their own ledger.
func (w *Workday) State() State {
	switch {
	case w == nil || w.CheckinAt == nil:
		return NotStarted
	case w.CheckoutAt != nil:
		return CheckedOut
	case w.LunchStart != nil && w.LunchEnd == nil:
		return OnLunch
	default:
		return CheckedIn
	}
}

// Update is a partial mutation of a workday. Nil fields are left untouched;
// the store owns translation into a persistence-specific SET clause.
type Update struct {
	CheckinAt      *time.Time
	CheckinStatus  *Status
	CheckoutAt     *time.Time
	CheckoutStatus *Status
	LunchStart     *time.Time
	LunchEnd       *time.Time
	LunchStatus    *Status

	LateMinutes             *int
	BreakTotalMinutes       *int
	CompensationMinutes     *int
	CompensationWorkMinutes *int
}
