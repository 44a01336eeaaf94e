package incident

import "time"

type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
)

// Incident codes raised by the rules engine.
const (
	CodeLateCheckin        = "LATE_CHECKIN"
	CodeNoCheckinManualOut = "NO_CHECKIN_MANUAL_CHECKOUT"
	CodeLunchExceed60      = "LUNCH_EXCEED_60"
	CodeMiniBreakExceed7   = "MINI_BREAK_EXCEED_7"
	CodeMiniBreakOver3     = "MINI_BREAK_OVER_3"
	CodeTotalBreakExceed60 = "BREAK_EXCEED_60"
	CodeAutoLunch          = "AUTO_LUNCH"
	CodeAutoCheckout       = "AUTO_CHECKOUT"
)

// Incident is a recorded policy event awaiting notification. At most one
// exists per (workday, code); NotifiedAt stays nil until the notifier
// delivers it.
type Incident struct {
	ID          string
	EmployeeID  string
	WorkdayID   string
	Code        string
	Message     string
	Severity    Severity
	OccurredAt  time.Time
	NotifyAfter time.Time
	NotifiedAt  *time.Time
	Channel     string
	CreatedAt   time.Time
}
