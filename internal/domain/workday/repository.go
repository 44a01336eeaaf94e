package workday

import (
	"context"
	"time"
)

// WorkdayRepository defines keyed access to workday records.
type WorkdayRepository interface {
	// Create inserts a new workday row and returns it with generated fields.
	Create(ctx context.Context, wd Workday) (Workday, error)

	// GetByEmployeeAndDay returns the workday for the employee on the given
	// calendar day, or nil when none exists yet.
	GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (*Workday, error)

	GetByID(ctx context.Context, id string) (Workday, error)

	// Apply performs a partial update of the identified workday.
	Apply(ctx context.Context, id string, upd Update) error

	// ListByEmployeeRange returns the employee's workdays with day in
	// [from, to], ordered by day ascending.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Workday, error)

	// ListByDay returns every workday on the given calendar day, keyed by
	// employee id. Used by the live overview.
	ListByDay(ctx context.Context, day time.Time) (map[string]Workday, error)
}
