// Package token provides the session-token authenticator: it resolves a
// token from the request and verifies it against the request scope.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sinabro/schedbird/pkg/auth"
	"github.com/sinabro/schedbird/pkg/auth/credential"
	"github.com/sinabro/schedbird/pkg/debug"
	"github.com/sinabro/schedbird/pkg/session"
	"github.com/sinabro/schedbird/pkg/user"
)

// Verifier checks a raw session token against the expected scope.
type Verifier interface {
	Verify(token, expectedScope string) (*session.Claims, error)
}

// DefaultResolver checks the bearer header, then the session cookie.
var DefaultResolver = credential.Resolver{Sources: []credential.Source{
	credential.BearerHeader{},
	credential.Cookie{CookieName: auth.SessionCookie},
}}

// Authenticator votes on requests carrying a session token.
//
// Decision outcomes:
//   - Abstain: no token, or the token has expired
//   - No: token malformed or issued for another scope
//   - Yes: token verified; the user comes from its claims
type Authenticator struct {
	verifier Verifier
	resolver credential.Resolver
}

// Ensure Authenticator implements auth.Authenticator at compile time.
var _ auth.Authenticator = (*Authenticator)(nil)

// New creates a session-token authenticator. A resolver without sources
// is replaced by DefaultResolver.
func New(v Verifier, resolver credential.Resolver) *Authenticator {
	if len(resolver.Sources) == 0 {
		resolver = DefaultResolver
	}
	return &Authenticator{verifier: v, resolver: resolver}
}

// Authenticate implements auth.Authenticator.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.AuthResult {
	cred, ok := a.resolver.Resolve(r)
	if !ok {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	scope := auth.RequestScopeFromContext(ctx)
	claims, err := a.verifier.Verify(cred.Token, scope)
	switch {
	case err == nil:
		return auth.AuthResult{
			Decision: auth.Yes,
			Method:   auth.MethodSession,
			User: &user.User{
				ID:        claims.User,
				Scope:     claims.Scope,
				LiveToken: claims.Token,
			},
		}
	case errors.Is(err, session.ErrExpired):
		debug.Log("session", "expired token treated as absent", "source", cred.Source)
		return auth.AuthResult{
			Decision: auth.Abstain,
			Err:      fmt.Errorf("%w: %w", auth.ErrMissingCredential, err),
		}
	default:
		return auth.AuthResult{
			Decision: auth.No,
			Err:      fmt.Errorf("%w: %w", auth.ErrInvalidCredential, err),
		}
	}
}
