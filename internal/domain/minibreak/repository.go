package minibreak

import (
	"context"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
)

// Totals are the per-workday aggregates over closed mini-breaks.
type Totals struct {
	DurationMinutes int
	ExceededMinutes int
}

// MiniBreakRepository is the per-workday break ledger.
type MiniBreakRepository interface {
	// Create inserts an open mini-break and returns it with generated fields.
	Create(ctx context.Context, mb MiniBreak) (MiniBreak, error)

	// ListByWorkday returns the workday's mini-breaks in insertion order.
	ListByWorkday(ctx context.Context, workdayID string) ([]MiniBreak, error)

	// GetOpen returns the most recently inserted open mini-break, or nil.
	GetOpen(ctx context.Context, workdayID string) (*MiniBreak, error)

	// Close fills end/duration/overage on the identified break.
	Close(ctx context.Context, id string, endAt time.Time, durationMinutes, exceededMinutes int, status workday.Status) error

	// TotalsByWorkday sums duration and overage across the workday's breaks.
	TotalsByWorkday(ctx context.Context, workdayID string) (Totals, error)

	// CountByWorkday returns how many mini-breaks the workday has, open or
	// closed.
	CountByWorkday(ctx context.Context, workdayID string) (int, error)
}
