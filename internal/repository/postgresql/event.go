package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/event"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type eventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepository{db: db}
}

// Append implements event.EventRepository.
func (r *eventRepository) Append(ctx context.Context, ev event.Event) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	var meta []byte
	if ev.Meta != nil {
		var err error
		meta, err = json.Marshal(ev.Meta)
		if err != nil {
			return event.Event{}, fmt.Errorf("failed to marshal event meta: %w", err)
		}
	}

	ev.ID = uuid.NewString()
	query := `
		INSERT INTO attendance_events (id, employee_id, workday_id, event_type, occurred_at, status, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		ev.ID, ev.EmployeeID, ev.WorkdayID, ev.Type, ev.OccurredAt, ev.Status, meta,
	).Scan(&ev.CreatedAt)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return ev, nil
}

// ListByWorkday implements event.EventRepository.
func (r *eventRepository) ListByWorkday(ctx context.Context, workdayID string) ([]event.Event, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, workday_id, event_type, occurred_at, status, meta, created_at
		FROM attendance_events
		WHERE workday_id = $1
		ORDER BY occurred_at ASC
	`, workdayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var ev event.Event
		var meta []byte
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.WorkdayID, &ev.Type, &ev.OccurredAt, &ev.Status, &meta, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &ev.Meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event meta: %w", err)
			}
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}
