package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sinabro/schedbird/pkg/api"
	"github.com/sinabro/schedbird/pkg/auth/credential"
	"github.com/sinabro/schedbird/pkg/debug"
	"github.com/sinabro/schedbird/pkg/observability"
	"github.com/sinabro/schedbird/pkg/transport"
)

// Redirector starts a provider login. It may set cookies on w (for
// example to bind the OAuth state) and returns the authorize URL.
type Redirector interface {
	BeginAuthorization(w http.ResponseWriter) (string, error)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID, scope, providerToken string) (string, error)
	TTL() time.Duration
}

// Gateway wires the collaborators the middleware needs. All fields
// except Limiter and Bypass are required.
type Gateway struct {
	Chain      *AuthChain
	Redirector Redirector
	Issuer     TokenIssuer
	Scopes     credential.ScopeResolver

	// Limiter is optional; nil disables rate limiting.
	Limiter RateLimiter

	// Bypass lists exact paths that skip authentication.
	Bypass []string
}

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/healthz", "/readyz", "/metrics"}

// Middleware creates HTTP middleware from a Gateway.
//
// Every request leaves with exactly one of: the downstream response
// carrying a fresh session, 302 to the provider, 401, 429 or 500.
func Middleware(gw Gateway) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(gw.Bypass))
	for _, ep := range gw.Bypass {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			scope := gw.Scopes.Resolve(r)
			ctx := SetRequestScope(r.Context(), scope)
			r = r.WithContext(ctx)

			result := gw.Chain.Authenticate(ctx, r)

			switch result.Decision {
			case Abstain:
				redirectToProvider(gw.Redirector, w, r)
				return
			case No:
				reject(w, r, result.Err)
				return
			}

			u := result.User
			if u == nil || u.ID == "" {
				slog.Error("authenticator returned empty user", "method", result.Method)
				transport.WriteAPIError(w, api.NewServerError("internal authentication error"))
				return
			}

			// A completed login has already spent its code; refusing it here
			// would leave the user with no session.
			if gw.Limiter != nil && result.Method != MethodCallback {
				if err := gw.Limiter.Allow(ctx, u.ID); err != nil {
					slog.Warn("rate limit exceeded", "user", u.ID)
					observability.RateLimitRejectedTotal.Inc()
					observability.AuthDecisionsTotal.WithLabelValues(observability.OutcomeRateLimited).Inc()
					transport.WriteAPIError(w, api.NewTooManyRequestsError("rate limit exceeded"))
					return
				}
			}

			token, err := gw.Issuer.Issue(u.ID, scope, u.LiveToken)
			if err != nil {
				slog.Error("issuing session token", "user", u.ID, "error", err)
				transport.WriteAPIError(w, api.NewServerError("internal authentication error"))
				return
			}
			observability.TokensIssuedTotal.Inc()
			observability.AuthDecisionsTotal.WithLabelValues(result.Method).Inc()

			debug.Log("gateway", "authenticated",
				"user", u.ID,
				"scope", scope,
				"method", result.Method,
				"path", r.URL.Path,
			)

			cookies := sessionCookies(token, u.ID, scope, gw.Issuer.TTL())
			if result.Method == MethodCallback {
				cookies = append(cookies, expiredStateCookie())
			}
			sw := &sessionWriter{
				ResponseWriter: w,
				token:          token,
				cookies:        cookies,
			}
			next.ServeHTTP(sw, r.WithContext(SetUser(ctx, u)))
			sw.ensureSessionHeaders()
		})
	}
}

func redirectToProvider(rd Redirector, w http.ResponseWriter, r *http.Request) {
	target, err := rd.BeginAuthorization(w)
	if err != nil {
		slog.Error("starting provider authorization", "error", err)
		transport.WriteAPIError(w, api.NewServerError("internal authentication error"))
		return
	}
	observability.AuthDecisionsTotal.WithLabelValues(observability.OutcomeRedirect).Inc()
	debug.Log("gateway", "redirecting to provider", "path", r.URL.Path)
	http.Redirect(w, r, target, http.StatusFound)
}

// reject maps a No decision to a response.
func reject(w http.ResponseWriter, r *http.Request, err error) {
	slog.Warn("authentication failed",
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error", err,
	)

	switch {
	case errors.Is(err, ErrStorageFailed):
		observability.AuthDecisionsTotal.WithLabelValues(observability.OutcomeStorageFailed).Inc()
		transport.WriteAPIError(w, api.NewServerError("user storage unavailable"))
	case errors.Is(err, ErrInvalidCredential):
		observability.AuthDecisionsTotal.WithLabelValues(observability.OutcomeInvalid).Inc()
		ClearSessionCookies(w)
		transport.WriteAPIError(w, api.NewUnauthorizedError("invalid_credential", "session rejected"))
	case errors.Is(err, ErrExchangeFailed):
		observability.AuthDecisionsTotal.WithLabelValues(observability.OutcomeProviderFailed).Inc()
		transport.WriteAPIError(w, api.NewUnauthorizedError("exchange_failed", "login with identity provider failed"))
	case errors.Is(err, ErrProfileFetchFailed):
		observability.AuthDecisionsTotal.WithLabelValues(observability.OutcomeProviderFailed).Inc()
		transport.WriteAPIError(w, api.NewUnauthorizedError("profile_fetch_failed", "login with identity provider failed"))
	default:
		observability.AuthDecisionsTotal.WithLabelValues(observability.OutcomeInvalid).Inc()
		transport.WriteAPIError(w, api.NewUnauthorizedError("unauthenticated", "authentication required"))
	}
}
