package incident

import (
	"context"
	"time"
)

// IncidentRepository is the deduplicated policy-violation register.
type IncidentRepository interface {
	// Upsert inserts the incident unless one with the same (workday, code)
	// already exists, in which case it is a silent no-op.
	Upsert(ctx context.Context, inc Incident) error

	// ListByWorkday returns the workday's incidents ordered by occurrence.
	ListByWorkday(ctx context.Context, workdayID string) ([]Incident, error)

	// CountByWorkdayIDs returns incident counts keyed by workday id.
	CountByWorkdayIDs(ctx context.Context, workdayIDs []string) (map[string]int, error)

	// ListDue returns up to limit undelivered incidents whose notify_after
	// has passed, oldest first.
	ListDue(ctx context.Context, before time.Time, limit int) ([]Incident, error)

	// MarkNotified stamps the delivery time on an incident.
	MarkNotified(ctx context.Context, id string, at time.Time) error
}
