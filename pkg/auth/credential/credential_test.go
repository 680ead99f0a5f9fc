package credential

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"empty header", "", "", false},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", false},
		{"bearer without token", "Bearer ", "", false},
		{"no space", "Bearerabc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := BearerHeader{}.Extract(req)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Extract = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCookie(t *testing.T) {
	src := Cookie{CookieName: "auth_token"}

	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := src.Extract(req); ok {
		t.Error("expected no credential without cookie")
	}

	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
	got, ok := src.Extract(req)
	if !ok || got != "tok" {
		t.Errorf("Extract = (%q, %v), want (%q, true)", got, ok, "tok")
	}

	empty := httptest.NewRequest("GET", "/", nil)
	empty.AddCookie(&http.Cookie{Name: "auth_token", Value: ""})
	if _, ok := src.Extract(empty); ok {
		t.Error("expected empty cookie to be ignored")
	}
}

func TestResolver_Precedence(t *testing.T) {
	res := Resolver{Sources: []Source{BearerHeader{}, Cookie{CookieName: "auth_token"}}}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "from-cookie"})

	cred, ok := res.Resolve(req)
	if !ok {
		t.Fatal("expected a credential")
	}
	if cred.Token != "from-header" || cred.Source != "bearer" {
		t.Errorf("got %+v, want header credential", cred)
	}

	cookieOnly := httptest.NewRequest("GET", "/", nil)
	cookieOnly.AddCookie(&http.Cookie{Name: "auth_token", Value: "from-cookie"})
	cred, ok = res.Resolve(cookieOnly)
	if !ok || cred.Token != "from-cookie" || cred.Source != "cookie:auth_token" {
		t.Errorf("got %+v (ok=%v), want cookie credential", cred, ok)
	}

	if _, ok := res.Resolve(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected no credential on bare request")
	}
}

func TestScopeResolver(t *testing.T) {
	tests := []struct {
		name     string
		resolver ScopeResolver
		header   string
		value    string
		want     string
	}{
		{"default header and scope", ScopeResolver{}, "", "", "home"},
		{"header present", ScopeResolver{}, "X-Scope", "work", "work"},
		{"custom header", ScopeResolver{Header: "X-Group"}, "X-Group", "team", "team"},
		{"custom header ignores default name", ScopeResolver{Header: "X-Group"}, "X-Scope", "work", "home"},
		{"custom default", ScopeResolver{Default: "lobby"}, "", "", "lobby"},
		{"blank value", ScopeResolver{}, "X-Scope", "  ", "home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			if got := tt.resolver.Resolve(req); got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}
