// Package transport provides the HTTP middleware chain shared by every
// schedbird route.
//
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID) and structured access logging via log/slog. Error
// responses use the JSON envelope defined in pkg/api.
package transport
