// Package auth reads identity claims out of session tokens and decides
// whether the current session may reach a protected view.
//
// Tokens are decoded without verifying their signature. The console only
// uses claims for UI decisions; the server re-validates the token on every
// protected request it serves. Do not rely on these claims for anything
// the server does not also enforce.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Role of a console user as issued in the token.
type Role string

const (
	AdminRole Role = "admin"
	UserRole  Role = "user"
)

// ErrDecodeFailure is returned when a token cannot be split into its three
// segments or its payload is not a valid JSON object.
var ErrDecodeFailure = errors.New("malformed session token")

// Claims are the payload fields of a session token that the console
// cares about. Fields absent from the payload stay at their zero value.
type Claims struct {
	Username string `mapstructure:"username"`
	Role     Role   `mapstructure:"role"`
	Exp      int64  `mapstructure:"exp"`
}

// Decode extracts the claims from a compact three-part token without
// verifying the signature. Any structural problem is reported as
// ErrDecodeFailure.
func Decode(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(ErrDecodeFailure, err.Error())
	}
	payload, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrDecodeFailure
	}
	claims := &Claims{}
	// The payload comes back as map[string]interface{} with float64
	// numbers; WeakDecode converts exp to int64.
	if err := mapstructure.WeakDecode(map[string]interface{}(payload), claims); err != nil {
		return nil, errors.Wrap(ErrDecodeFailure, err.Error())
	}
	return claims, nil
}

// ExpiresAt returns the absolute expiry of the claims.
func (c *Claims) ExpiresAt() time.Time {
	return time.Unix(c.Exp, 0)
}

// Expired reports whether the claims are no longer valid at now.
// A payload without an exp is never considered valid.
func (c *Claims) Expired(now time.Time) bool {
	if c.Exp == 0 {
		return true
	}
	return !c.ExpiresAt().After(now)
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == AdminRole
}
