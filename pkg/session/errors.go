package session

import "errors"

var (
	// ErrExpired means the token's exp lies in the past. Expiry is
	// reported even when the signature would not verify.
	ErrExpired = errors.New("session token expired")

	// ErrMalformed covers bad structure, wrong algorithm and signature mismatch.
	ErrMalformed = errors.New("session token malformed")

	// ErrScopeMismatch means the token was issued for another scope.
	ErrScopeMismatch = errors.New("session token scope mismatch")

	// ErrStateInvalid means an OAuth state token failed verification.
	ErrStateInvalid = errors.New("oauth state invalid")

	// ErrStateReplayed means an OAuth state token was already consumed.
	ErrStateReplayed = errors.New("oauth state already used")
)
