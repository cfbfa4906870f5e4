package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims embedded in an owner token.
// Tokens are issued by the external identity service; this backend only
// verifies the signature and expiry. An unsigned owner identifier is
// never accepted.
type Claims struct {
	OwnerID string `json:"sub"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager verifies owner access tokens.
type JWTManager struct {
	secret []byte
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// ParseAndValidate validates a JWT and returns the parsed claims.
func (m *JWTManager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Ensure token is signed using HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid jwt token")
	}

	return claims, nil
}

// GenerateToken creates a signed owner token. Used by tests and local
// tooling; production tokens come from the identity service.
func (m *JWTManager) GenerateToken(ownerID, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		OwnerID: ownerID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign jwt: %w", err)
	}

	return signed, nil
}
