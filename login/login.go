// Package login drives the captcha-gated sign-in sequence.
package login

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/root-ali/iris-console/auth"
	client "github.com/root-ali/iris-console/client/v1"
	"github.com/root-ali/iris-console/session"
)

var (
	// ErrInvalidToken is returned when the server hands back a token the
	// console cannot decode, or one without a role claim.
	ErrInvalidToken = errors.New("invalid token")

	// ErrPolicyDenied is returned when the token decodes fine but its role
	// is outside the permitted set.
	ErrPolicyDenied = errors.New("role is not permitted to use this console")

	// ErrSubmitInFlight is returned when a submission is attempted while
	// another one is outstanding. Submissions are never queued.
	ErrSubmitInFlight = errors.New("a sign-in attempt is already in flight")

	// ErrNoChallenge is returned when Submit is called without a loaded
	// captcha challenge.
	ErrNoChallenge = errors.New("no captcha challenge loaded")
)

// State of the sign-in flow.
type State int

const (
	Idle State = iota
	CaptchaLoading
	CaptchaReady
	Submitting
	Success
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CaptchaLoading:
		return "captcha-loading"
	case CaptchaReady:
		return "captcha-ready"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// Flow holds one sign-in attempt sequence: fetch a challenge, submit
// credentials plus the answer, and establish the session only when the
// returned token decodes and its role passes the policy.
//
// A Flow is driven from a single goroutine; overlapping submissions are
// rejected, not serialized.
type Flow struct {
	client    *client.Client
	sessions  session.Store
	permitted []auth.Role
	logger    *zap.SugaredLogger

	state     State
	challenge client.CaptchaChallenge
}

// NewFlow creates a sign-in flow. An empty permitted set accepts any role
// present in the token.
func NewFlow(c *client.Client, sessions session.Store, permitted []auth.Role, logger *zap.SugaredLogger) *Flow {
	return &Flow{
		client:    c,
		sessions:  sessions,
		permitted: permitted,
		logger:    logger,
	}
}

// State returns the current flow state.
func (f *Flow) State() State {
	return f.state
}

// Challenge returns the currently loaded captcha challenge.
func (f *Flow) Challenge() client.CaptchaChallenge {
	return f.challenge
}

// Start begins the flow. When a valid session already exists it
// short-circuits to Success without contacting the server and reports
// true; otherwise it loads the first challenge.
func (f *Flow) Start(ctx context.Context) (alreadySignedIn bool, err error) {
	if f.sessions.IsValid() {
		f.state = Success
		return true, nil
	}
	return false, f.Refresh(ctx)
}

// Refresh discards the current challenge, if any, and fetches a new one.
func (f *Flow) Refresh(ctx context.Context) error {
	if f.state == Submitting {
		return ErrSubmitInFlight
	}
	f.state = CaptchaLoading
	f.challenge = client.CaptchaChallenge{}
	challenge, err := f.client.GenerateCaptcha(ctx)
	if err != nil {
		// Back to Idle; the operator can retry the load.
		f.state = Idle
		return errors.Wrap(err, "loading captcha challenge")
	}
	f.challenge = challenge
	f.state = CaptchaReady
	return nil
}

// Submit sends the credentials and captcha answer for the loaded
// challenge. Whatever the outcome, the challenge is consumed: every
// failure path fetches a fresh one before returning the original error.
// The session is saved only after the token decodes and its role passes
// the policy, so it is never partially established.
func (f *Flow) Submit(ctx context.Context, username, password, answer string) error {
	switch f.state {
	case Submitting:
		return ErrSubmitInFlight
	case CaptchaReady:
	default:
		return ErrNoChallenge
	}
	challengeID := f.challenge.ID
	f.state = Submitting

	token, err := f.client.Signin(ctx, username, password, challengeID, answer)
	if err != nil {
		return f.fail(ctx, err)
	}
	if token == "" {
		return f.fail(ctx, ErrInvalidToken)
	}
	claims, err := auth.Decode(token)
	if err != nil {
		f.logger.Errorw("cannot decode signin token", "error", err)
		return f.fail(ctx, ErrInvalidToken)
	}
	if claims.Role == "" {
		return f.fail(ctx, ErrInvalidToken)
	}
	if !f.roleAllowed(claims.Role) {
		return f.fail(ctx, errors.Wrapf(ErrPolicyDenied, "role %q", claims.Role))
	}
	if err := f.sessions.Save(token); err != nil {
		return f.fail(ctx, err)
	}
	f.state = Success
	return nil
}

func (f *Flow) roleAllowed(role auth.Role) bool {
	if len(f.permitted) == 0 {
		return true
	}
	for _, r := range f.permitted {
		if role == r {
			return true
		}
	}
	return false
}

// fail consumes the challenge and surfaces the cause. The answer field is
// the caller's to clear; the flow guarantees a different challenge id for
// the next attempt.
func (f *Flow) fail(ctx context.Context, cause error) error {
	f.state = Idle
	if err := f.Refresh(ctx); err != nil {
		f.logger.Errorw("cannot refresh captcha after failed attempt", "error", err)
	}
	return cause
}
