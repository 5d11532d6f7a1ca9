package backend

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the secure store key of the bearer token
const TokenKey = "auth_token"

// TokenStore keeps the bearer token
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// tokenExpired reads the exp claim without verifying the signature; the
// backend remains the authority. Opaque tokens never expire locally.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
