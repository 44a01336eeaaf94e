package employee

import (
	"context"
	"errors"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/workday"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/timeutil"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type EmployeeServiceImpl struct {
	userRepo    user.UserRepository
	workdayRepo workday.WorkdayRepository
}

func NewEmployeeService(userRepo user.UserRepository, workdayRepo workday.WorkdayRepository) user.EmployeeService {
	return &EmployeeServiceImpl{
		userRepo:    userRepo,
		workdayRepo: workdayRepo,
	}
}

// Create implements user.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req user.CreateEmployeeRequest) (user.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return user.EmployeeResponse{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return user.EmployeeResponse{}, user.ErrEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return user.EmployeeResponse{}, err
	}

	passwordHash, err := hashSecret(req.Password)
	if err != nil {
		return user.EmployeeResponse{}, err
	}
	pinHash, err := hashSecret(req.PIN)
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Email:        req.Email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         user.RoleEmployee,
		IsActive:     active,
		FlexMode:     req.FlexMode,
		PasswordHash: passwordHash,
		PinHash:      pinHash,
	})
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	return s.toResponse(ctx, created), nil
}

// Get implements user.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (user.EmployeeResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.EmployeeResponse{}, err
	}
	return s.toResponse(ctx, u), nil
}

// List implements user.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter user.ListEmployeesFilter) (user.ListEmployeesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	users, total, err := s.userRepo.ListEmployees(ctx, filter)
	if err != nil {
		return user.ListEmployeesResponse{}, err
	}

	items := make([]user.EmployeeResponse, 0, len(users))
	for _, u := range users {
		items = append(items, s.toResponse(ctx, u))
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))

	return user.ListEmployeesResponse{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Update implements user.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req user.UpdateEmployeeRequest) (user.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return user.EmployeeResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	if req.Email != nil && *req.Email != u.Email {
		if other, err := s.userRepo.GetByEmail(ctx, *req.Email); err == nil && other.ID != u.ID {
			return user.EmployeeResponse{}, user.ErrEmailExists
		} else if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return user.EmployeeResponse{}, err
		}
		u.Email = *req.Email
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.FlexMode != nil {
		u.FlexMode = *req.FlexMode
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return user.EmployeeResponse{}, err
	}

	return s.toResponse(ctx, u), nil
}

// ResetSecret implements user.EmployeeService.
func (s *EmployeeServiceImpl) ResetSecret(ctx context.Context, req user.ResetSecretRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, req.ID); err != nil {
		return err
	}

	passwordHash, err := hashSecret(req.Password)
	if err != nil {
		return err
	}
	pinHash, err := hashSecret(req.PIN)
	if err != nil {
		return err
	}

	return s.userRepo.SetSecret(ctx, req.ID, passwordHash, pinHash)
}

// Delete implements user.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string, hard bool) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id, hard)
}

// toResponse projects a user plus today's attendance stamps, when any.
func (s *EmployeeServiceImpl) toResponse(ctx context.Context, u user.User) user.EmployeeResponse {
	res := user.EmployeeResponse{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     string(u.Role),
		IsActive: u.IsActive,
		FlexMode: u.FlexMode,
	}

	today := timeutil.DayOf(time.Now())
	wd, err := s.workdayRepo.GetByEmployeeAndDay(ctx, u.ID, today)
	if err != nil || wd == nil {
		return res
	}

	dayStr := timeutil.FormatDay(wd.Day)
	res.LastDay = &dayStr
	if wd.CheckinAt != nil {
		v := wd.CheckinAt.Format(time.RFC3339)
		res.LastCheckin = &v
	}
	if wd.CheckoutAt != nil {
		v := wd.CheckoutAt.Format(time.RFC3339)
		res.LastCheckout = &v
	}

	return res
}

func hashSecret(secret *string) (*string, error) {
	if secret == nil {
		return nil, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(*secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s := string(h)
	return &s, nil
}
