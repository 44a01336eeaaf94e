package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/incident"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type incidentRepository struct {
	db *database.DB
}

func NewIncidentRepository(db *database.DB) incident.IncidentRepository {
	return &incidentRepository{db: db}
}

var ErrIncidentNotFound = errors.New("incident not found")

const incidentColumns = `id, employee_id, workday_id, code, message, severity, occurred_at, notify_after, notified_at, channel, created_at`

func scanIncident(row pgx.Row) (incident.Incident, error) {
	var inc incident.Incident
	err := row.Scan(
		&inc.ID, &inc.EmployeeID, &inc.WorkdayID, &inc.Code, &inc.Message, &inc.Severity,
		&inc.OccurredAt, &inc.NotifyAfter, &inc.NotifiedAt, &inc.Channel, &inc.CreatedAt,
	)
	return inc, err
}

// Upsert implements incident.IncidentRepository. The unique index on
// (workday_id, code) makes retried raises a silent no-op.
func (r *incidentRepository) Upsert(ctx context.Context, inc incident.Incident) error {
	q := GetQuerier(ctx, r.db)

	if inc.Channel == "" {
		inc.Channel = "both"
	}

	_, err := q.Exec(ctx, `
		INSERT INTO incidents (id, employee_id, workday_id, code, message, severity, occurred_at, notify_after, channel)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (workday_id, code) DO NOTHING
	`, uuid.NewString(), inc.EmployeeID, inc.WorkdayID, inc.Code, inc.Message, inc.Severity, inc.OccurredAt, inc.NotifyAfter, inc.Channel)
	if err != nil {
		return fmt.Errorf("failed to upsert incident: %w", err)
	}

	return nil
}

// ListByWorkday implements incident.IncidentRepository.
func (r *incidentRepository) ListByWorkday(ctx context.Context, workdayID string) ([]incident.Incident, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+incidentColumns+` FROM incidents WHERE workday_id = $1 ORDER BY occurred_at ASC`,
		workdayID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	var incidents []incident.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		incidents = append(incidents, inc)
	}

	return incidents, rows.Err()
}

// CountByWorkdayIDs implements incident.IncidentRepository.
func (r *incidentRepository) CountByWorkdayIDs(ctx context.Context, workdayIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(workdayIDs) == 0 {
		return counts, nil
	}

	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT workday_id, COUNT(*)
		FROM incidents
		WHERE workday_id = ANY($1)
		GROUP BY workday_id
	`, workdayIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count incidents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var workdayID string
		var count int
		if err := rows.Scan(&workdayID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan incident count: %w", err)
		}
		counts[workdayID] = count
	}

	return counts, rows.Err()
}

// ListDue implements incident.IncidentRepository.
func (r *incidentRepository) ListDue(ctx context.Context, before time.Time, limit int) ([]incident.Incident, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+incidentColumns+`
		FROM incidents
		WHERE notified_at IS NULL AND notify_after <= $1
		ORDER BY notify_after ASC
		LIMIT $2
	`, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due incidents: %w", err)
	}
	defer rows.Close()

	var incidents []incident.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		incidents = append(incidents, inc)
	}

	return incidents, rows.Err()
}

// MarkNotified implements incident.IncidentRepository.
func (r *incidentRepository) MarkNotified(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE incidents SET notified_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark incident notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrIncidentNotFound
	}

	return nil
}
