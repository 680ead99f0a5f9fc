// Package config provides unified configuration for the schedbird gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. .env file values for variables not set in the process environment
//  4. Environment variable overrides (SCHED_ prefix plus the legacy
//     GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET, JWT_SECRET, DATABASE_URL)
//  5. File reference resolution (_file suffix fields)
//  6. Validation
package config

import "time"

// State check modes for the OAuth callback.
const (
	StateCheckStrict   = "strict"
	StateCheckPresence = "presence"
)

// Config holds all configuration for the schedbird gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Session       SessionConfig       `yaml:"session"`
	GitHub        GitHubConfig        `yaml:"github"`
	Storage       StorageConfig       `yaml:"storage"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 60s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 15s
}

// AuthConfig holds gateway settings.
type AuthConfig struct {
	StateCheck        string `yaml:"state_check"`         // "strict" or "presence", default: "strict"
	ScopeHeader       string `yaml:"scope_header"`        // default: "X-Scope"
	DefaultScope      string `yaml:"default_scope"`       // default: "home"
	RequestsPerMinute int    `yaml:"requests_per_minute"` // 0 disables rate limiting
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	SecretFile string        `yaml:"secret_file"` // _file variant for secret
	TTL        time.Duration `yaml:"ttl"`         // default: 600s
	Issuer     string        `yaml:"issuer"`      // default: "schedbird"
	StateTTL   time.Duration `yaml:"state_ttl"`   // default: 10m
}

// GitHubConfig holds OAuth application settings.
type GitHubConfig struct {
	ClientID         string        `yaml:"client_id"`
	ClientSecret     string        `yaml:"client_secret"`
	ClientSecretFile string        `yaml:"client_secret_file"` // _file variant for client_secret
	RedirectURL      string        `yaml:"redirect_url"`
	Scopes           []string      `yaml:"scopes"`       // default: ["user"]
	AuthURL          string        `yaml:"auth_url"`     // optional, GitHub Enterprise
	TokenURL         string        `yaml:"token_url"`    // optional, GitHub Enterprise
	APIBaseURL       string        `yaml:"api_base_url"` // optional, GitHub Enterprise
	Timeout          time.Duration `yaml:"timeout"`      // default: 10s
}

// StorageConfig holds user store settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory" or "postgres", default: "memory"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 10
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// LogConfig holds logging settings consumed by debug.Init.
type LogConfig struct {
	Level string `yaml:"level"` // default: "info"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			StateCheck:   StateCheckStrict,
			ScopeHeader:  "X-Scope",
			DefaultScope: "home",
		},
		Session: SessionConfig{
			TTL:      600 * time.Second,
			Issuer:   "schedbird",
			StateTTL: 10 * time.Minute,
		},
		GitHub: GitHubConfig{
			Scopes:  []string{"user"},
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns: 10,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
