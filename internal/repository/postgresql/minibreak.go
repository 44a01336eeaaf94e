package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/minibreak"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type miniBreakRepository struct {
	db *database.DB
}

func NewMiniBreakRepository(db *database.DB) minibreak.MiniBreakRepository {
	return &miniBreakRepository{db: db}
}

var ErrMiniBreakNotFound = errors.New("mini-break not found")

const miniBreakColumns = `id, employee_id, workday_id, start_at, end_at, duration_minutes, exceeded_minutes, status, created_at`

func scanMiniBreak(row pgx.Row) (minibreak.MiniBreak, error) {
	var mb minibreak.MiniBreak
	err := row.Scan(
		&mb.ID, &mb.EmployeeID, &mb.WorkdayID, &mb.StartAt, &mb.EndAt,
		&mb.DurationMinutes, &mb.ExceededMinutes, &mb.Status, &mb.CreatedAt,
	)
	return mb, err
}

// Create implements minibreak.MiniBreakRepository.
func (r *miniBreakRepository) Create(ctx context.Context, mb minibreak.MiniBreak) (minibreak.MiniBreak, error) {
	q := GetQuerier(ctx, r.db)

	mb.ID = uuid.NewString()
	query := `
		INSERT INTO mini_breaks (id, employee_id, workday_id, start_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query, mb.ID, mb.EmployeeID, mb.WorkdayID, mb.StartAt, mb.Status).Scan(&mb.CreatedAt)
	if err != nil {
		return minibreak.MiniBreak{}, fmt.Errorf("failed to create mini-break: %w", err)
	}

	return mb, nil
}

// ListByWorkday implements minibreak.MiniBreakRepository.
func (r *miniBreakRepository) ListByWorkday(ctx context.Context, workdayID string) ([]minibreak.MiniBreak, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+miniBreakColumns+` FROM mini_breaks WHERE workday_id = $1 ORDER BY created_at ASC`,
		workdayID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mini-breaks: %w", err)
	}
	defer rows.Close()

	var breaks []minibreak.MiniBreak
	for rows.Next() {
		mb, err := scanMiniBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mini-break: %w", err)
		}
		breaks = append(breaks, mb)
	}

	return breaks, rows.Err()
}

// GetOpen implements minibreak.MiniBreakRepository.
func (r *miniBreakRepository) GetOpen(ctx context.Context, workdayID string) (*minibreak.MiniBreak, error) {
	q := GetQuerier(ctx, r.db)

	mb, err := scanMiniBreak(q.QueryRow(ctx,
		`SELECT `+miniBreakColumns+` FROM mini_breaks WHERE workday_id = $1 AND end_at IS NULL ORDER BY created_at DESC LIMIT 1`,
		workdayID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open mini-break: %w", err)
	}

	return &mb, nil
}

// Close implements minibreak.MiniBreakRepository.
func (r *miniBreakRepository) Close(ctx context.Context, id string, endAt time.Time, durationMinutes, exceededMinutes int, status workday.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE mini_breaks
		SET end_at = $2, duration_minutes = $3, exceeded_minutes = $4, status = $5
		WHERE id = $1
	`, id, endAt, durationMinutes, exceededMinutes, status)
	if err != nil {
		return fmt.Errorf("failed to close mini-break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMiniBreakNotFound
	}

	return nil
}

// TotalsByWorkday implements minibreak.MiniBreakRepository.
func (r *miniBreakRepository) TotalsByWorkday(ctx context.Context, workdayID string) (minibreak.Totals, error) {
	q := GetQuerier(ctx, r.db)

	var totals minibreak.Totals
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0), COALESCE(SUM(exceeded_minutes), 0)
		FROM mini_breaks
		WHERE workday_id = $1
	`, workdayID).Scan(&totals.DurationMinutes, &totals.ExceededMinutes)
	if err != nil {
		return minibreak.Totals{}, fmt.Errorf("failed to sum mini-breaks: %w", err)
	}

	return totals, nil
}

// CountByWorkday implements minibreak.MiniBreakRepository.
func (r *miniBreakRepository) CountByWorkday(ctx context.Context, workdayID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM mini_breaks WHERE workday_id = $1`, workdayID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count mini-breaks: %w", err)
	}

	return count, nil
}
