// Command server runs the schedbird authentication gateway.
//
// Configuration is read from a YAML file (-config, SCHED_CONFIG,
// ./config.yaml or /etc/schedbird/config.yaml), a .env file and the
// environment. The essentials:
//
//	GITHUB_CLIENT_ID          - OAuth application client id (required)
//	GITHUB_CLIENT_SECRET      - OAuth application client secret (required)
//	SCHED_GITHUB_REDIRECT_URL - OAuth callback URL, e.g. https://sched.example.com/auth (required)
//	JWT_SECRET                - Session signing secret (required)
//	DATABASE_URL              - PostgreSQL DSN when SCHED_STORAGE=postgres
//	SCHED_PORT                - Listen port (default: 8080)
//	SCHED_STATE_CHECK         - "strict" or "presence" (default: "strict")
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sinabro/schedbird/pkg/auth"
	"github.com/sinabro/schedbird/pkg/auth/callback"
	"github.com/sinabro/schedbird/pkg/auth/credential"
	"github.com/sinabro/schedbird/pkg/auth/token"
	"github.com/sinabro/schedbird/pkg/config"
	"github.com/sinabro/schedbird/pkg/debug"
	"github.com/sinabro/schedbird/pkg/identity/github"
	"github.com/sinabro/schedbird/pkg/session"
	"github.com/sinabro/schedbird/pkg/storage/memory"
	"github.com/sinabro/schedbird/pkg/storage/postgres"
	transporthttp "github.com/sinabro/schedbird/pkg/transport/http"
	"github.com/sinabro/schedbird/pkg/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// userStore is what the server needs from a storage backend.
type userStore interface {
	user.Store
	HealthCheck(ctx context.Context) error
	Close() error
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	debug.Init(cfg.Log.Debug, cfg.Log.Level)
	debug.Log("config", "configuration loaded",
		"storage", cfg.Storage.Type,
		"state_check", cfg.Auth.StateCheck,
		"session_ttl", cfg.Session.TTL,
	)

	store, err := openStore(context.Background(), cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := session.NewManager(session.Config{
		Secret:   []byte(cfg.Session.Secret),
		TTL:      cfg.Session.TTL,
		Issuer:   cfg.Session.Issuer,
		StateTTL: cfg.Session.StateTTL,
	})
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}

	provider, err := github.New(github.Config{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		RedirectURL:  cfg.GitHub.RedirectURL,
		Scopes:       cfg.GitHub.Scopes,
		AuthURL:      cfg.GitHub.AuthURL,
		TokenURL:     cfg.GitHub.TokenURL,
		APIBaseURL:   cfg.GitHub.APIBaseURL,
		Timeout:      cfg.GitHub.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating github client: %w", err)
	}

	var state callback.StatePolicy
	switch cfg.Auth.StateCheck {
	case config.StateCheckPresence:
		slog.Warn("OAuth state is checked for presence only")
		state = callback.NewPresenceOnly()
	default:
		state = &callback.SignedState{Issuer: sessions, TTL: cfg.Session.StateTTL}
	}
	cb := callback.New(provider, store, state)

	var limiter auth.RateLimiter
	if cfg.Auth.RequestsPerMinute > 0 {
		limiter = auth.NewInProcessLimiter(cfg.Auth.RequestsPerMinute)
		slog.Info("rate limiting enabled", "requests_per_minute", cfg.Auth.RequestsPerMinute)
	}

	bypass := []string{"/healthz", "/readyz"}
	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
		bypass = append(bypass, metricsPath)
	}

	gateway := auth.Middleware(auth.Gateway{
		Chain: &auth.AuthChain{Authenticators: []auth.Authenticator{
			token.New(sessions, token.DefaultResolver),
			cb,
		}},
		Redirector: cb,
		Issuer:     sessions,
		Scopes: credential.ScopeResolver{
			Header:  cfg.Auth.ScopeHeader,
			Default: cfg.Auth.DefaultScope,
		},
		Limiter: limiter,
		Bypass:  bypass,
	})

	routes := transporthttp.Routes{
		Gateway:     gateway,
		Store:       store,
		MetricsPath: metricsPath,
	}

	srv := transporthttp.NewServer(routes.Handler(),
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)

	slog.Info("schedbird starting",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"state_check", cfg.Auth.StateCheck,
	)
	return srv.ListenAndServe()
}

func openStore(ctx context.Context, cfg config.StorageConfig) (userStore, error) {
	switch cfg.Type {
	case "postgres":
		s, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Postgres.DSN,
			MaxConns:       cfg.Postgres.MaxConns,
			MigrateOnStart: cfg.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return s, nil
	default:
		slog.Warn("using in-memory user store; users are lost on restart")
		return memory.New(), nil
	}
}
