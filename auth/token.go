package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessTokenExpiry extracts the exp claim of a backend access token without
// verifying the signature. The gateway is not the token's audience; the
// backend validates the signature on every API call. A token that cannot be
// parsed yields the zero time, which disables proactive refresh for it.
func accessTokenExpiry(raw string) time.Time {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
