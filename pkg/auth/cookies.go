package auth

import (
	"net/http"
	"slices"
	"strings"
	"time"
)

// Session cookie names.
const (
	SessionCookie = "auth_token"
	UserCookie    = "user"
	ScopeCookie   = "scope"

	// StateCookie holds the login state between redirect and callback.
	StateCookie = "oauth_state"
)

// sessionCookieNames is ordered so responses are deterministic.
var sessionCookieNames = []string{SessionCookie, UserCookie, ScopeCookie}

func newSessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
}

// sessionCookies returns the three cookies carrying a fresh session.
func sessionCookies(token, userID, scope string, ttl time.Duration) []*http.Cookie {
	maxAge := int(ttl / time.Second)
	return []*http.Cookie{
		newSessionCookie(SessionCookie, token, maxAge),
		newSessionCookie(UserCookie, userID, maxAge),
		newSessionCookie(ScopeCookie, scope, maxAge),
	}
}

// expiredStateCookie removes the login state cookie once the callback has
// consumed it. Attributes match the cookie set when the login began.
func expiredStateCookie() *http.Cookie {
	return &http.Cookie{
		Name:     StateCookie,
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookies expires the session cookies on the client.
func ClearSessionCookies(w http.ResponseWriter) {
	h := w.Header()
	dropCookies(h, sessionCookieNames)
	for _, name := range sessionCookieNames {
		c := newSessionCookie(name, "", -1)
		c.Expires = time.Unix(0, 0)
		h.Add("Set-Cookie", c.String())
	}
}

// dropCookies removes Set-Cookie entries for the given names already present
// on the response.
func dropCookies(h http.Header, names []string) {
	existing := h.Values("Set-Cookie")
	if len(existing) == 0 {
		return
	}
	kept := make([]string, 0, len(existing))
	for _, line := range existing {
		name, _, _ := strings.Cut(line, "=")
		if !slices.Contains(names, strings.TrimSpace(name)) {
			kept = append(kept, line)
		}
	}
	h.Del("Set-Cookie")
	for _, line := range kept {
		h.Add("Set-Cookie", line)
	}
}

// sessionWriter attaches the session token to the response before the
// first byte is written, overwriting anything the downstream handler set.
type sessionWriter struct {
	http.ResponseWriter
	token   string
	cookies []*http.Cookie
	applied bool
}

func (w *sessionWriter) WriteHeader(statusCode int) {
	w.ensureSessionHeaders()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.ensureSessionHeaders()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Flush() {
	w.ensureSessionHeaders()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.NewResponseController.
func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *sessionWriter) ensureSessionHeaders() {
	if w.applied {
		return
	}
	w.applied = true

	h := w.ResponseWriter.Header()
	h.Set("Authorization", "Bearer "+w.token)
	names := make([]string, 0, len(w.cookies))
	for _, c := range w.cookies {
		names = append(names, c.Name)
	}
	dropCookies(h, names)
	for _, c := range w.cookies {
		h.Add("Set-Cookie", c.String())
	}
}

