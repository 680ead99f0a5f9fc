// Package credential extracts a candidate session token and the request
// scope from an inbound HTTP request.
//
// Sources are tried in priority order; the first one that yields a
// non-empty token wins.
package credential

import (
	"net/http"
	"strings"

	"github.com/sinabro/schedbird/pkg/user"
)

// Credential is a raw token together with the source that produced it.
type Credential struct {
	Token  string
	Source string
}

// Source extracts a raw token from a request.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Extract returns the token and true when the source applies.
	Extract(r *http.Request) (string, bool)
}

// BearerHeader reads "Authorization: Bearer <token>".
type BearerHeader struct{}

func (BearerHeader) Name() string { return "bearer" }

func (BearerHeader) Extract(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Cookie reads the named cookie.
type Cookie struct {
	CookieName string
}

func (c Cookie) Name() string { return "cookie:" + c.CookieName }

func (c Cookie) Extract(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// Resolver tries Sources in order.
type Resolver struct {
	Sources []Source
}

// Resolve returns the first credential found.
func (res Resolver) Resolve(r *http.Request) (Credential, bool) {
	for _, src := range res.Sources {
		if tok, ok := src.Extract(r); ok {
			return Credential{Token: tok, Source: src.Name()}, true
		}
	}
	return Credential{}, false
}

// ScopeResolver derives the request scope from a header.
type ScopeResolver struct {
	// Header is the request header carrying the scope. Default: X-Scope.
	Header string

	// Default is used when the header is absent. Default: "home".
	Default string
}

// DefaultScopeHeader is the header consulted when ScopeResolver.Header is empty.
const DefaultScopeHeader = "X-Scope"

// Resolve returns the header value, or the default scope.
func (s ScopeResolver) Resolve(r *http.Request) string {
	header := s.Header
	if header == "" {
		header = DefaultScopeHeader
	}
	if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
		return v
	}
	if s.Default == "" {
		return user.DefaultScope
	}
	return s.Default
}
