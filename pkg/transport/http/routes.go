// Package http serves the gateway routes over net/http and manages the
// server lifecycle.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sinabro/schedbird/pkg/api"
	"github.com/sinabro/schedbird/pkg/auth"
	"github.com/sinabro/schedbird/pkg/observability"
	"github.com/sinabro/schedbird/pkg/transport"
)

// HealthChecker reports whether a backing dependency can serve requests.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Routes describes the endpoints served in front of the application.
type Routes struct {
	// Gateway authenticates every request not on its bypass list.
	Gateway func(http.Handler) http.Handler

	// Store is probed by /readyz. Nil reports ready unconditionally.
	Store HealthChecker

	// MetricsPath mounts the Prometheus handler. Empty disables it.
	MetricsPath string

	// App serves every authenticated path not handled here. Defaults
	// to a JSON 404.
	App http.Handler

	// Logger is used by the access log middleware. Defaults to slog.Default().
	Logger *slog.Logger
}

// Handler assembles the mux and the middleware chain:
// recovery, request ID, access log, metrics, then the auth gateway.
func (rt Routes) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", rt.handleReadyz)
	if rt.MetricsPath != "" {
		mux.Handle("GET "+rt.MetricsPath, observability.Handler())
	}
	mux.HandleFunc("GET /auth", handleLanding)
	mux.HandleFunc("GET /api/v1/me", handleMe)

	app := rt.App
	if app == nil {
		app = http.HandlerFunc(handleNotFound)
	}
	mux.Handle("/", app)

	logger := rt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mws := []transport.Middleware{
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(logger),
		observability.MetricsMiddleware,
	}
	if rt.Gateway != nil {
		mws = append(mws, rt.Gateway)
	}
	return transport.Chain(mws...)(mux)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (rt Routes) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if rt.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rt.Store.HealthCheck(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			transport.WriteErrorResponse(w, api.NewServerError("user store unavailable"), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready\n"))
}

// handleLanding is the OAuth redirect target. The gateway has already
// completed the login by the time it runs.
func handleLanding(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		transport.WriteAPIError(w, api.NewUnauthorizedError("unauthenticated", "authentication required"))
		return
	}
	transport.WriteJSON(w, http.StatusOK, api.UserResponse{ID: u.ID, Scope: auth.RequestScopeFromContext(r.Context())})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	transport.WriteAPIError(w, api.NewNotFoundError("no route for "+r.URL.Path))
}
