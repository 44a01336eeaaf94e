package jwt

import (
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey           string
	accessTokenDuration string
	tokenAuth           *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenDuration string) Service {
	return &JWTService{
		secretKey:           secretKey,
		accessTokenDuration: accessTokenDuration,
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(u user.User) (string, int64, error) {
	expDuration, err := time.ParseDuration(j.accessTokenDuration)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":   u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"role":      string(u.Role),
		"type":      "access",
		"exp":       expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}
