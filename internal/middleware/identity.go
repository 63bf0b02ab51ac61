package middleware // middleware provides shared request processing for handlers

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// OptionalIdentity returns an Echo middleware that extracts a pre-verified
// caller identity from a Bearer token when one is present.  Reservations are
// open to guests, so a missing, malformed or expired token never rejects the
// request; it simply leaves the caller anonymous.  When a valid HS256 token
// is presented, the numeric subject claim is stored in the context under
// "user_id" so bookings can be attributed to the account.  An empty secret
// disables identity extraction entirely.
func OptionalIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return next(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return next(c)
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return next(c)
			}
			if uid, ok := subjectID(claims); ok {
				c.Set("user_id", uid)
			}
			return next(c)
		}
	}
}

// subjectID extracts a numeric user ID from the sub (or user_id) claim.
// JSON numbers arrive as float64; string subjects are parsed.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
	for _, key := range []string{"sub", "user_id"} {
		switch v := claims[key].(type) {
		case float64:
			if v > 0 {
				return uint64(v), true
			}
		case string:
			if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// CurrentUserID returns the authenticated caller's ID, or nil for guests.
func CurrentUserID(c echo.Context) *uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return &v
	}
	return nil
}
