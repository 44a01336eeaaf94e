package rules

import (
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/timeutil"
)

// Attendance policy constants. Compensation is owed at a 1:3 ratio on
// lateness and break overage.
const (
	compRatio = 3

	lunchMaxMinutes      = 60
	totalBreakMaxMinutes = 60

	miniBreakMaxMinutes   = 7
	miniBreakMaxPerDay    = 3
	miniBreakBeforeLimit  = 2
	miniBreakAfterDefault = 1
)

var (
	checkinLateAfter = timeutil.MustTimeOfDay("09:05:00")
	autoCheckoutAt   = timeutil.MustTimeOfDay("17:00:00")
	lunchWindowStart = timeutil.MustTimeOfDay("12:00:00")
	lunchWindowEnd   = timeutil.MustTimeOfDay("13:00:00")
)

// Policy rejection messages returned to callers as expected outcomes.
const (
	msgAlreadyCheckedIn    = "Already checked in today"
	msgAlreadyCheckedOut   = "Already checked out"
	msgMissingCheckin      = "Missing check-in. Provide manual check-in time."
	msgMustCheckInFirst    = "Must check in first"
	msgLunchAlreadyStarted = "Lunch already started"
	msgLunchNotStarted     = "Lunch not started"
	msgLunchAlreadyEnded   = "Lunch already ended"
	msgLunchTooEarly       = "Lunch can start only 1 hour after check-in"
	msgLunchTooLate        = "Lunch must start at least 2 hours before checkout"
	msgMiniLimitBefore     = "Mini-break limit reached before lunch (max 2)."
	msgMiniLimitAfter      = "Mini-break limit reached after lunch."
	msgMiniAlreadyRunning  = "Mini-break already running"
	msgMiniNotRunning      = "No mini-break running"
	msgNoWorkday           = "No workday found"
)

// lateMinutes is the whole minutes past the 09:05 cutoff, clamped to zero.
func lateMinutes(checkinAt time.Time) int {
	cutoff := checkinLateAfter.On(checkinAt)
	return timeutil.ClampMin(timeutil.MinutesBetween(cutoff, checkinAt))
}
