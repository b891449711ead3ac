package auth

// Decision is the outcome of an access check for a protected view.
type Decision int

const (
	// Allow renders the requested view.
	Allow Decision = iota
	// RedirectToLogin is returned when no valid session exists.
	RedirectToLogin
	// RedirectToUnauthorized is returned when the session is valid but the
	// view demands a role the user does not have.
	RedirectToUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToUnauthorized:
		return "redirect-to-unauthorized"
	default:
		return "unknown"
	}
}

// SessionState is the subset of the session store the guard consults.
type SessionState interface {
	IsValid() bool
	IsAdmin() bool
}

// Guard gates navigation to protected views on the current session.
type Guard struct {
	sessions SessionState
}

func NewGuard(sessions SessionState) *Guard {
	return &Guard{sessions: sessions}
}

// Check decides whether a protected view may render. It is evaluated on
// every navigation and caches nothing, so a session that expires mid-use
// is caught on the next check.
func (g *Guard) Check(requireAdmin bool) Decision {
	if !g.sessions.IsValid() {
		return RedirectToLogin
	}
	if requireAdmin && !g.sessions.IsAdmin() {
		return RedirectToUnauthorized
	}
	return Allow
}
