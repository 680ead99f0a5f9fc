// Package api defines the JSON wire types returned by the schedbird
// HTTP surface: the error envelope used by every rejection and the
// body of the current-user endpoint.
package api
