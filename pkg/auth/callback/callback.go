// Package callback provides the OAuth authorization-code authenticator.
// It handles the redirect back from the identity provider and starts new
// logins for the gateway.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sinabro/schedbird/pkg/auth"
	"github.com/sinabro/schedbird/pkg/debug"
	"github.com/sinabro/schedbird/pkg/identity"
	"github.com/sinabro/schedbird/pkg/user"
)

// Authenticator votes on requests carrying code and state.
//
// Decision outcomes:
//   - Abstain: code or state missing
//   - No: state rejected, provider failure, or user store failure
//   - Yes: code exchanged and user upserted
type Authenticator struct {
	provider identity.Provider
	users    user.Store
	state    StatePolicy
}

// Ensure Authenticator implements auth.Authenticator and auth.Redirector.
var (
	_ auth.Authenticator = (*Authenticator)(nil)
	_ auth.Redirector    = (*Authenticator)(nil)
)

// New creates a callback authenticator.
func New(provider identity.Provider, users user.Store, state StatePolicy) *Authenticator {
	return &Authenticator{provider: provider, users: users, state: state}
}

// BeginAuthorization implements auth.Redirector.
func (a *Authenticator) BeginAuthorization(w http.ResponseWriter) (string, error) {
	state, err := a.state.Begin(w)
	if err != nil {
		return "", fmt.Errorf("issuing oauth state: %w", err)
	}
	return a.provider.AuthCodeURL(state), nil
}

// Authenticate implements auth.Authenticator.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.AuthResult {
	q := r.URL.Query()
	if !identity.HasCallback(q) {
		return auth.AuthResult{Decision: auth.Abstain, Err: auth.ErrMissingCredential}
	}
	cb, err := identity.ParseCallback(q)
	if err != nil {
		debug.Log("oauth", "incomplete callback ignored",
			"has_code", q.Has("code"),
			"has_state", q.Has("state"),
		)
		return auth.AuthResult{Decision: auth.Abstain, Err: fmt.Errorf("%w: %w", auth.ErrMissingCredential, err)}
	}

	if err := a.state.Check(r, cb.State); err != nil {
		return auth.AuthResult{Decision: auth.No, Err: fmt.Errorf("%w: %w", auth.ErrInvalidCredential, err)}
	}

	principal, err := a.provider.Exchange(ctx, cb.Code)
	if err != nil {
		if errors.Is(err, identity.ErrProfileFetchFailed) {
			return auth.AuthResult{Decision: auth.No, Err: fmt.Errorf("%w: %w", auth.ErrProfileFetchFailed, err)}
		}
		return auth.AuthResult{Decision: auth.No, Err: fmt.Errorf("%w: %w", auth.ErrExchangeFailed, err)}
	}

	scope := auth.RequestScopeFromContext(ctx)
	u, err := Upsert(ctx, a.users, principal.ExternalID, scope, principal.AccessToken)
	if err != nil {
		return auth.AuthResult{Decision: auth.No, Err: fmt.Errorf("%w: %w", auth.ErrStorageFailed, err)}
	}

	debug.Log("oauth", "login completed", "user", u.ID, "scope", scope)
	return auth.AuthResult{Decision: auth.Yes, Method: auth.MethodCallback, User: u}
}
