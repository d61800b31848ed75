package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"maintenance-tracker/internal/model"
)

// Claims is the authenticated-caller identity carried in a token.
type Claims struct {
	UserID uint
	Role   model.Role
}

// TokenManager issues and verifies the HMAC-signed bearer tokens the HTTP
// layer uses to identify callers.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate returns a signed token for the user.
func (m *TokenManager) Generate(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token string and extracts the caller identity.
func (m *TokenManager) Parse(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}
	userID, ok := mapClaims["user_id"].(float64)
	if !ok || userID <= 0 {
		return Claims{}, fmt.Errorf("invalid user_id claim")
	}
	role, _ := mapClaims["role"].(string)

	return Claims{UserID: uint(userID), Role: model.Role(role)}, nil
}
