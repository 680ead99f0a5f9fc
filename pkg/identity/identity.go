// Package identity defines the contract with the external OAuth identity
// provider: building the authorize URL and turning an authorization code
// into an authenticated principal.
package identity

import (
	"context"
	"errors"
	"net/url"
)

var (
	// ErrMissingCredential means the callback query lacks code or state.
	ErrMissingCredential = errors.New("missing authorization code or state")

	// ErrExchangeFailed covers token endpoint rejection, network failure and timeout.
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrProfileFetchFailed means the profile lookup after a successful exchange failed.
	ErrProfileFetchFailed = errors.New("profile lookup failed")
)

// Principal is the result of a completed authorization-code exchange.
type Principal struct {
	// ExternalID is the provider account id (GitHub login).
	ExternalID string

	// AccessToken is the provider access token.
	AccessToken string

	// Scopes lists the scopes granted by the provider.
	Scopes []string
}

// Callback is the code/state pair delivered to the redirect URL.
type Callback struct {
	Code  string
	State string
}

// Provider performs the OAuth 2.0 authorization-code grant.
// Implementations must honor ctx cancellation and never retry.
type Provider interface {
	// AuthCodeURL returns the provider authorize URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades a code for an access token and resolves the profile.
	Exchange(ctx context.Context, code string) (*Principal, error)
}

// HasCallback reports whether the query carries either callback parameter.
func HasCallback(q url.Values) bool {
	return q.Has("code") || q.Has("state")
}

// ParseCallback extracts code and state from a redirect query.
// Both must be present and non-empty.
func ParseCallback(q url.Values) (Callback, error) {
	cb := Callback{Code: q.Get("code"), State: q.Get("state")}
	if cb.Code == "" || cb.State == "" {
		return Callback{}, ErrMissingCredential
	}
	return cb, nil
}
