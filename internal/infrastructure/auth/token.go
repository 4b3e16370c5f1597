// Package auth inspects the bearer tokens the platform issues. The
// client never verifies signatures, it has no key material; it only
// reads claims to skip REST calls that are guaranteed to fail.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the platform's access-token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Inspect parses a token without verifying it and returns its claims.
func Inspect(token string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("auth: malformed token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the token's exp claim lies in the past.
// Tokens that do not parse as JWTs, or carry no exp claim, are treated
// as live; the platform is the authority on those.
func Expired(token string, now time.Time) bool {
	claims, err := Inspect(token)
	if err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}

// RemainingTTL returns how long the token stays valid, zero for
// expired tokens and -1 for tokens without a readable exp claim.
func RemainingTTL(token string, now time.Time) time.Duration {
	claims, err := Inspect(token)
	if err != nil || claims.ExpiresAt == nil {
		return -1
	}
	ttl := claims.ExpiresAt.Time.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
