package event

import "context"

// EventRepository is the append-only transition log.
type EventRepository interface {
	// Append inserts an event and returns it with generated fields set.
	Append(ctx context.Context, ev Event) (Event, error)

	// ListByWorkday returns the workday's events ordered by occurrence time.
	ListByWorkday(ctx context.Context, workdayID string) ([]Event, error)
}
