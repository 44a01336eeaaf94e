package auth

import (
	"context"
	"errors"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo   user.UserRepository
	jwtService jwt.Service
}

func NewAuthService(userRepo user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if !u.IsActive {
		return auth.LoginResponse{}, user.ErrAccountDisabled
	}

	if !verifySecret(u, req) {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(u)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: auth.LoginUser{
			ID:       u.ID,
			Role:     string(u.Role),
			FullName: u.FullName,
			Email:    u.Email,
		},
	}, nil
}

// verifySecret checks the presented credential against whichever hash the
// account carries. A password is tried before a PIN.
func verifySecret(u user.User, req auth.LoginRequest) bool {
	if req.Password != "" && u.PasswordHash != nil {
		return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)) == nil
	}
	if req.PIN != "" && u.PinHash != nil {
		return bcrypt.CompareHashAndPassword([]byte(*u.PinHash), []byte(req.PIN)) == nil
	}
	return false
}
