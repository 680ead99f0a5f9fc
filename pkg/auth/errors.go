package auth

import "errors"

// Sentinel errors. Authenticators wrap the underlying cause with %w so
// callers can match either layer with errors.Is.
var (
	// ErrMissingCredential means no token and no callback parameters were
	// presented. It leads to a provider redirect, not an error page.
	ErrMissingCredential = errors.New("no credential presented")

	// ErrInvalidCredential covers malformed and scope-mismatched tokens
	// and rejected OAuth state.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrExchangeFailed means the provider rejected the authorization code
	// or could not be reached.
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrProfileFetchFailed means the provider profile lookup failed.
	ErrProfileFetchFailed = errors.New("profile lookup failed")

	// ErrStorageFailed means the user store was unavailable.
	ErrStorageFailed = errors.New("user storage failed")

	// ErrTooManyRequests is returned by RateLimiter.
	ErrTooManyRequests = errors.New("rate limit exceeded")
)
