package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"parkwise/internal/db"
)

const tokenTTL = 24 * time.Hour

// Identity is the authenticated caller as seen by the services: a user id
// and a role, nothing more.
type Identity struct {
	UserID string
	Role   db.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == db.RoleAdmin
}

// IssueToken signs a JWT carrying the user's id and role.
func IssueToken(secret string, user *db.User) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and returns the identity.
func ParseToken(secret, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Identity{}, errors.New("invalid claims")
	}
	return Identity{UserID: sub, Role: db.Role(role)}, nil
}
