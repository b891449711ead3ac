// Package session persists the current session token across console
// invocations and answers validity and role queries about it.
package session

import (
	"github.com/root-ali/iris-console/auth"
)

// Fixed keys under which session artifacts are stored.
const (
	tokenKey = "jwt"
	userKey  = "user"
)

// Store is the single source of truth for who the current user is.
// Implementations hold the raw token plus a cached copy of its claims and
// perform no network I/O.
type Store interface {
	// Save persists the raw token, overwriting any prior session.
	Save(token string) error
	// AuthToken returns the raw token, or "" when no session is stored.
	AuthToken() string
	// Current returns the decoded claims, or nil when no token is stored
	// or the stored token cannot be decoded.
	Current() *auth.Claims
	// IsValid reports whether a session exists and its expiry is in the
	// future.
	IsValid() bool
	// IsAdmin reports whether a valid session carries the admin role.
	IsAdmin() bool
	// Clear removes all persisted session artifacts.
	Clear() error
}
