package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var ErrMissingUser = errors.New("credential has no user id")

// Claims are the parts of the bearer credential the client relies on. The
// signature is not checked here; the server remains the authority.
type Claims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

func ParseCredential(token string) (*Claims, error) {
	parser := gojwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, gojwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}
	claims := parsed.Claims.(gojwt.MapClaims)

	userID, ok := userIDFrom(claims)
	if !ok {
		return nil, ErrMissingUser
	}

	out := &Claims{UserID: userID}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func userIDFrom(claims gojwt.MapClaims) (int64, bool) {
	for _, name := range []string{"id", "user_id", "sub"} {
		switch v := claims[name].(type) {
		case float64:
			if v != 0 {
				return int64(v), true
			}
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id != 0 {
				return id, true
			}
		}
	}
	return 0, false
}
