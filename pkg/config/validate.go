package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.GitHub.ClientID == "" {
		errs = append(errs, fmt.Errorf("github.client_id is required"))
	}
	if c.GitHub.ClientSecret == "" && c.GitHub.ClientSecretFile == "" {
		errs = append(errs, fmt.Errorf("github.client_secret or github.client_secret_file is required"))
	}
	if c.GitHub.RedirectURL == "" {
		errs = append(errs, fmt.Errorf("github.redirect_url is required"))
	} else if u, err := url.Parse(c.GitHub.RedirectURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("github.redirect_url must be an absolute URL, got %q", c.GitHub.RedirectURL))
	}

	if c.Session.Secret == "" && c.Session.SecretFile == "" {
		errs = append(errs, fmt.Errorf("session.secret or session.secret_file is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be > 0, got %v", c.Session.TTL))
	}

	switch c.Auth.StateCheck {
	case StateCheckStrict, StateCheckPresence:
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.state_check must be \"strict\" or \"presence\", got %q", c.Auth.StateCheck))
	}
	if c.Auth.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("auth.requests_per_minute must be >= 0, got %d", c.Auth.RequestsPerMinute))
	}

	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	return errors.Join(errs...)
}
