// Package github implements identity.Provider for GitHub OAuth apps.
//
// GitHub issues no ID token, so the login is resolved with a follow-up
// GET /user call made with the freshly exchanged access token.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/sinabro/schedbird/pkg/debug"
	"github.com/sinabro/schedbird/pkg/identity"
	"github.com/sinabro/schedbird/pkg/observability"
)

const (
	// DefaultAPIBaseURL is the public GitHub REST API.
	DefaultAPIBaseURL = "https://api.github.com/"

	// DefaultTimeout bounds each provider round trip.
	DefaultTimeout = 10 * time.Second
)

// DefaultScopes is requested when Config.Scopes is empty.
var DefaultScopes = []string{"user"}

// Config holds the OAuth app registration and endpoint overrides.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Scopes requested on the authorize URL. Default: ["user"].
	Scopes []string

	// AuthURL and TokenURL override the github.com endpoints (GHE, tests).
	AuthURL  string
	TokenURL string

	// APIBaseURL overrides the REST API root. Default: https://api.github.com/.
	APIBaseURL string

	// Timeout is applied when HTTPClient is nil. Default: 10s.
	Timeout time.Duration

	// HTTPClient is used for both the exchange and the profile call.
	HTTPClient *http.Client
}

func (c *Config) applyDefaults() {
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultScopes
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if !strings.HasSuffix(c.APIBaseURL, "/") {
		c.APIBaseURL += "/"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

// Client is a GitHub identity.Provider. It is safe for concurrent use.
type Client struct {
	oauth   *oauth2.Config
	http    *http.Client
	apiBase *url.URL
}

// Ensure Client implements identity.Provider at compile time.
var _ identity.Provider = (*Client)(nil)

// New creates a GitHub provider client.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("github: client id and secret are required")
	}
	cfg.applyDefaults()

	apiBase, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("github: parsing API base URL: %w", err)
	}

	endpoint := githuboauth.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		http:    cfg.HTTPClient,
		apiBase: apiBase,
	}, nil
}

// AuthCodeURL returns the GitHub authorize URL for the given state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades the code for an access token and resolves the login.
func (c *Client) Exchange(ctx context.Context, code string) (*identity.Principal, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	start := time.Now()
	tok, err := c.oauth.Exchange(ctx, code)
	observeProvider("token", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrExchangeFailed, err)
	}

	scopes := grantedScopes(tok)
	debug.Log("oauth", "code exchanged", "scopes", strings.Join(scopes, ","),
		"token", debug.Fingerprint(tok.AccessToken))

	gh := gogithub.NewClient(c.http).WithAuthToken(tok.AccessToken)
	gh.BaseURL = c.apiBase

	start = time.Now()
	u, _, err := gh.Users.Get(ctx, "")
	observeProvider("user", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrProfileFetchFailed, err)
	}
	login := u.GetLogin()
	if login == "" {
		return nil, fmt.Errorf("%w: empty login", identity.ErrProfileFetchFailed)
	}

	debug.Log("oauth", "profile resolved", "user", login)

	return &identity.Principal{
		ExternalID:  login,
		AccessToken: tok.AccessToken,
		Scopes:      scopes,
	}, nil
}

// grantedScopes splits the comma separated scope list GitHub returns.
func grantedScopes(tok *oauth2.Token) []string {
	raw, _ := tok.Extra("scope").(string)
	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func observeProvider(call string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.ProviderRequestsTotal.WithLabelValues(call, outcome).Inc()
	observability.ProviderRequestDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
}
