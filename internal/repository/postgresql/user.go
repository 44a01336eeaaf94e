package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, full_name, phone, role, is_active, flex_mode, password_hash, pin_hash, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.IsActive, &u.FlexMode,
		&u.PasswordHash, &u.PinHash, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u.ID = uuid.NewString()
	query := `
		INSERT INTO users (id, email, full_name, phone, role, is_active, flex_mode, password_hash, pin_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		u.ID, u.Email, u.FullName, u.Phone, u.Role, u.IsActive, u.FlexMode, u.PasswordHash, u.PinHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

// ListEmployees implements user.UserRepository.
func (r *userRepository) ListEmployees(ctx context.Context, filter user.ListEmployeesFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := `role = 'EMPLOYEE'`
	args := []interface{}{}
	argIdx := 1

	if !filter.IncludeInactive {
		baseWhere += ` AND is_active`
	}

	if filter.Search != "" {
		baseWhere += fmt.Sprintf(` AND (full_name ILIKE $%d OR email ILIKE $%d OR COALESCE(phone, '') ILIKE $%d)`, argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := fmt.Sprintf(
		`SELECT `+userColumns+` FROM users WHERE `+baseWhere+` ORDER BY full_name LIMIT $%d OFFSET $%d`,
		argIdx, argIdx+1,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}

// ListActiveEmployees implements user.UserRepository.
func (r *userRepository) ListActiveEmployees(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = 'EMPLOYEE' AND is_active ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update implements user.UserRepository.
func (r *userRepository) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET email = $2, full_name = $3, phone = $4, is_active = $5, flex_mode = $6, updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Email, u.FullName, u.Phone, u.IsActive, u.FlexMode)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// SetSecret implements user.UserRepository.
func (r *userRepository) SetSecret(ctx context.Context, id string, passwordHash, pinHash *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET password_hash = COALESCE($2, password_hash),
		    pin_hash = COALESCE($3, pin_hash),
		    updated_at = NOW()
		WHERE id = $1
	`, id, passwordHash, pinHash)
	if err != nil {
		return fmt.Errorf("failed to set user secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Delete implements user.UserRepository.
func (r *userRepository) Delete(ctx context.Context, id string, hard bool) error {
	q := GetQuerier(ctx, r.db)

	var query string
	if hard {
		query = `DELETE FROM users WHERE id = $1`
	} else {
		query = `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	}

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
