package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"filedrop/internal/models"
)

// SessionClaims is the signed session token payload. Role is a cached copy of
// the database role: it may be stale for up to the revalidation interval (see
// service.AuthService.Refresh).
type SessionClaims struct {
	UserID        string      `json:"uid"`
	Role          models.Role `json:"role"`
	RevalidatedAt int64       `json:"rvat"` // unix milliseconds
	jwt.RegisteredClaims
}

// Authenticated reports whether the claims still carry an identity. Claims
// are cleared in place when revalidation finds the user gone.
func (c *SessionClaims) Authenticated() bool {
	return c != nil && c.UserID != ""
}

func SignSessionToken(secret string, claims SessionClaims, ttl time.Duration, now time.Time) (string, error) {
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.Subject = claims.UserID

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func ParseSessionToken(tokenStr string, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// NewInviteToken returns a URL-safe one-time token for invite links.
func NewInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
