package report

import (
	"context"
	"io"
	"time"
)

// ReportService serves the read side over the records the rules engine
// produces. It never mutates attendance state.
type ReportService interface {
	// DaySummary returns the employee's own view of one day.
	DaySummary(ctx context.Context, employeeID string, day time.Time) (DaySummaryResponse, error)

	// Timeline returns the labeled event timeline plus computed summary for
	// one employee-day.
	Timeline(ctx context.Context, employeeID string, day time.Time) (TimelineResponse, error)

	// Aggregate rolls the employee's workdays up over the "week" or "month"
	// containing the anchor day.
	Aggregate(ctx context.Context, employeeID string, rangeKind string, anchor time.Time) (AggregateResponse, error)

	// LiveOverview groups all active employees by current state on a day.
	LiveOverview(ctx context.Context, day time.Time) (LiveOverviewResponse, error)

	// WriteCSV streams a per-workday CSV report for the date range. An empty
	// employeeID includes every employee.
	WriteCSV(ctx context.Context, w io.Writer, from, to time.Time, employeeID string) error
}
