// Package auth is the schedbird request-path authentication gateway.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (user resolved), No (credentials
// invalid) or Abstain (can't handle). When every authenticator abstains
// the gateway redirects the browser to the identity provider.
//
// On Yes the gateway issues a fresh session token, binds the user to the
// request context and runs the downstream handler. Before the first byte
// of the response is written the token is attached as an Authorization
// header and as session cookies, giving sliding-window expiry.
package auth
