package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type workdayRepository struct {
	db *database.DB
}

func NewWorkdayRepository(db *database.DB) workday.WorkdayRepository {
	return &workdayRepository{db: db}
}

var ErrWorkdayNotFound = errors.New("workday not found")

const workdayColumns = `id, employee_id, day, checkin_at, checkin_status, checkout_at, checkout_status,
	lunch_start, lunch_end, lunch_status, late_minutes, break_total_minutes,
	compensation_minutes, compensation_work_minutes, scheduled_start, scheduled_end,
	created_at, updated_at`

func scanWorkday(row pgx.Row) (workday.Workday, error) {
	var wd workday.Workday
	err := row.Scan(
		&wd.ID, &wd.EmployeeID, &wd.Day, &wd.CheckinAt, &wd.CheckinStatus, &wd.CheckoutAt, &wd.CheckoutStatus,
		&wd.LunchStart, &wd.LunchEnd, &wd.LunchStatus, &wd.LateMinutes, &wd.BreakTotalMinutes,
		&wd.CompensationMinutes, &wd.CompensationWorkMinutes, &wd.ScheduledStart, &wd.ScheduledEnd,
		&wd.CreatedAt, &wd.UpdatedAt,
	)
	return wd, err
}

// Create implements workday.WorkdayRepository.
func (r *workdayRepository) Create(ctx context.Context, wd workday.Workday) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	wd.ID = uuid.NewString()
	if wd.ScheduledStart == "" {
		wd.ScheduledStart = workday.DefaultScheduledStart
	}
	if wd.ScheduledEnd == "" {
		wd.ScheduledEnd = workday.DefaultScheduledEnd
	}

	query := `
		INSERT INTO workdays (
			id, employee_id, day, checkin_at, checkin_status, checkout_at, checkout_status,
			lunch_start, lunch_end, lunch_status, late_minutes, scheduled_start, scheduled_end
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		wd.ID, wd.EmployeeID, wd.Day, wd.CheckinAt, wd.CheckinStatus, wd.CheckoutAt, wd.CheckoutStatus,
		wd.LunchStart, wd.LunchEnd, wd.LunchStatus, wd.LateMinutes, wd.ScheduledStart, wd.ScheduledEnd,
	).Scan(&wd.CreatedAt, &wd.UpdatedAt)
	if err != nil {
		return workday.Workday{}, fmt.Errorf("failed to create workday: %w", err)
	}

	return wd, nil
}

// GetByEmployeeAndDay implements workday.WorkdayRepository.
func (r *workdayRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (*workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	wd, err := scanWorkday(q.QueryRow(ctx,
		`SELECT `+workdayColumns+` FROM workdays WHERE employee_id = $1 AND day = $2 LIMIT 1`,
		employeeID, day,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no workday yet for that day
		}
		return nil, fmt.Errorf("failed to get workday by employee and day: %w", err)
	}

	return &wd, nil
}

// GetByID implements workday.WorkdayRepository.
func (r *workdayRepository) GetByID(ctx context.Context, id string) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	wd, err := scanWorkday(q.QueryRow(ctx, `SELECT `+workdayColumns+` FROM workdays WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workday.Workday{}, ErrWorkdayNotFound
		}
		return workday.Workday{}, fmt.Errorf("failed to get workday by id: %w", err)
	}

	return wd, nil
}

// Apply implements workday.WorkdayRepository. The Update value type is
// translated into a SET clause here; nil fields are skipped.
func (r *workdayRepository) Apply(ctx context.Context, id string, upd workday.Update) error {
	q := GetQuerier(ctx, r.db)

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argIdx := 2

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if upd.CheckinAt != nil {
		add("checkin_at", *upd.CheckinAt)
	}
	if upd.CheckinStatus != nil {
		add("checkin_status", *upd.CheckinStatus)
	}
	if upd.CheckoutAt != nil {
		add("checkout_at", *upd.CheckoutAt)
	}
	if upd.CheckoutStatus != nil {
		add("checkout_status", *upd.CheckoutStatus)
	}
	if upd.LunchStart != nil {
		add("lunch_start", *upd.LunchStart)
	}
	if upd.LunchEnd != nil {
		add("lunch_end", *upd.LunchEnd)
	}
	if upd.LunchStatus != nil {
		add("lunch_status", *upd.LunchStatus)
	}
	if upd.LateMinutes != nil {
		add("late_minutes", *upd.LateMinutes)
	}
	if upd.BreakTotalMinutes != nil {
		add("break_total_minutes", *upd.BreakTotalMinutes)
	}
	if upd.CompensationMinutes != nil {
		add("compensation_minutes", *upd.CompensationMinutes)
	}
	if upd.CompensationWorkMinutes != nil {
		add("compensation_work_minutes", *upd.CompensationWorkMinutes)
	}

	query := `UPDATE workdays SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply workday update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkdayNotFound
	}

	return nil
}

// ListByEmployeeRange implements workday.WorkdayRepository.
func (r *workdayRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+workdayColumns+` FROM workdays WHERE employee_id = $1 AND day BETWEEN $2 AND $3 ORDER BY day ASC`,
		employeeID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list workdays by range: %w", err)
	}
	defer rows.Close()

	var workdays []workday.Workday
	for rows.Next() {
		wd, err := scanWorkday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workday: %w", err)
		}
		workdays = append(workdays, wd)
	}

	return workdays, rows.Err()
}

// ListByDay implements workday.WorkdayRepository.
func (r *workdayRepository) ListByDay(ctx context.Context, day time.Time) (map[string]workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+workdayColumns+` FROM workdays WHERE day = $1`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list workdays by day: %w", err)
	}
	defer rows.Close()

	byEmployee := make(map[string]workday.Workday)
	for rows.Next() {
		wd, err := scanWorkday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workday: %w", err)
		}
		byEmployee[wd.EmployeeID] = wd
	}

	return byEmployee, rows.Err()
}
