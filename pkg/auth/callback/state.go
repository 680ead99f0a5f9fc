package callback

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sinabro/schedbird/pkg/auth"
)

// StateCookie binds an issued state to the browser that started the login.
const StateCookie = auth.StateCookie

// ErrStateMismatch means the callback state differs from the state cookie.
var ErrStateMismatch = errors.New("oauth state does not match cookie")

// StatePolicy issues the OAuth state parameter and checks it on callback.
type StatePolicy interface {
	// Begin returns the state for a new authorize URL. It may set cookies.
	Begin(w http.ResponseWriter) (string, error)

	// Check validates the state of a callback request.
	Check(r *http.Request, state string) error
}

// PresenceOnly uses one random state for the process lifetime and only
// requires that a callback carries some state.
type PresenceOnly struct {
	state string
}

// NewPresenceOnly creates a PresenceOnly policy with a random state.
func NewPresenceOnly() *PresenceOnly {
	return &PresenceOnly{state: uuid.NewString()}
}

func (p *PresenceOnly) Begin(http.ResponseWriter) (string, error) {
	return p.state, nil
}

func (p *PresenceOnly) Check(_ *http.Request, state string) error {
	if state == "" {
		return ErrStateMismatch
	}
	return nil
}

// StateIssuer is implemented by session.Manager.
type StateIssuer interface {
	IssueState() (string, error)
	VerifyState(state string) error
}

// SignedState issues signed single-use states and requires the callback
// to present the same value in the state cookie.
type SignedState struct {
	Issuer StateIssuer

	// TTL sets the cookie lifetime. It should match the issuer's state TTL.
	TTL time.Duration
}

func (s *SignedState) Begin(w http.ResponseWriter) (string, error) {
	state, err := s.Issuer.IssueState()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(s.TTL / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return state, nil
}

func (s *SignedState) Check(r *http.Request, state string) error {
	ck, err := r.Cookie(StateCookie)
	if err != nil || ck.Value != state {
		return ErrStateMismatch
	}
	if err := s.Issuer.VerifyState(state); err != nil {
		return fmt.Errorf("verifying state: %w", err)
	}
	return nil
}
