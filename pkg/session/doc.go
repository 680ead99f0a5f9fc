// Package session issues and verifies the signed tokens that carry a
// schedbird login between requests.
//
// A session token is an HS512 JWT with the claims user, scope, token
// (the provider access token) and exp, plus iat, jti and iss. Tokens are
// stateless: verification never consults the user store.
//
// The package also issues short-lived OAuth state tokens. A state token
// is accepted at most once per process.
package session
