package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a bearer token is already past its JWT exp
// claim. The parse is deliberately unverified: signature checking is the
// backend's job, this only avoids a wasted round trip for a token the
// backend is guaranteed to reject. Opaque (non-JWT) tokens and tokens
// without an exp claim are never considered expired here.
func TokenExpired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
