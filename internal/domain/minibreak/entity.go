package minibreak

import (
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
)

// Phase classifies a mini-break relative to the day's lunch boundary.
type Phase string

const (
	PhaseBeforeLunch Phase = "before_lunch"
	PhaseAfterLunch  Phase = "after_lunch"
)

// MiniBreak is a short pause tracked separately from lunch. EndAt, duration
// and overage stay nil until the break is closed.
type MiniBreak struct {
	ID              string
	EmployeeID      string
	WorkdayID       string
	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes *int
	ExceededMinutes *int
	Status          workday.Status
	CreatedAt       time.Time
}

// Open reports whether the break has not been closed yet.
func (m *MiniBreak) Open() bool {
	return m.EndAt == nil
}
