package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
	Role   string `json:"role"`
}

// AuthToken issues and verifies JWT access tokens
type AuthToken struct {
	secret []byte
}

// NewAuthToken creates new AuthToken instance
func NewAuthToken(secret []byte) *AuthToken {
	return &AuthToken{secret: secret}
}

// CreateToken creates signed token for user
func (a *AuthToken) CreateToken(user *models.User) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	return token.SignedString(a.secret)
}

// VerifyToken parses and validates token string
func (a *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	c := claims{}

	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{
		ID:     c.ID,
		UserID: c.UserID,
		Role:   c.Role,
	}, nil
}
