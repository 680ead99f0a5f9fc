package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, SCHED_CONFIG env, ./config.yaml, /etc/schedbird/config.yaml)
//  3. .env file (SCHED_ENV_FILE or ./.env); never overrides the process environment
//  4. Environment variable overrides
//  5. File reference resolution (_file suffix)
//  6. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	env, err := loadDotEnv()
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(&cfg, env.lookup); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. SCHED_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/schedbird/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("SCHED_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/schedbird/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// dotEnv holds values read from a .env file. Non-empty process
// variables take precedence over it.
type dotEnv map[string]string

// loadDotEnv reads SCHED_ENV_FILE, or ./.env when unset. A missing default
// file is not an error; a missing explicit file is.
func loadDotEnv() (dotEnv, error) {
	path, explicit := os.LookupEnv("SCHED_ENV_FILE")
	if !explicit || path == "" {
		path, explicit = ".env", false
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return dotEnv{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return values, nil
}

// lookup treats an empty process variable as unset.
func (d dotEnv) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return d[key]
}

// applyEnvOverrides maps environment variables to config fields. The
// unprefixed names are the ones the service has always read.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	var errs []error

	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	dur := func(dst *time.Duration, key string) {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	integer := func(dst *int, key string) {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	integer(&cfg.Server.Port, "SCHED_PORT")

	str(&cfg.GitHub.ClientID, "SCHED_GITHUB_CLIENT_ID", "GITHUB_CLIENT_ID")
	str(&cfg.GitHub.ClientSecret, "SCHED_GITHUB_CLIENT_SECRET", "GITHUB_CLIENT_SECRET")
	str(&cfg.GitHub.RedirectURL, "SCHED_GITHUB_REDIRECT_URL")
	if v := getenv("SCHED_GITHUB_SCOPES"); v != "" {
		cfg.GitHub.Scopes = splitList(v)
	}
	dur(&cfg.GitHub.Timeout, "SCHED_GITHUB_TIMEOUT")

	str(&cfg.Session.Secret, "SCHED_SESSION_SECRET", "JWT_SECRET")
	dur(&cfg.Session.TTL, "SCHED_SESSION_TTL")

	str(&cfg.Auth.StateCheck, "SCHED_STATE_CHECK")
	str(&cfg.Auth.ScopeHeader, "SCHED_SCOPE_HEADER")
	str(&cfg.Auth.DefaultScope, "SCHED_DEFAULT_SCOPE")
	integer(&cfg.Auth.RequestsPerMinute, "SCHED_REQUESTS_PER_MINUTE")

	str(&cfg.Storage.Type, "SCHED_STORAGE")
	str(&cfg.Storage.Postgres.DSN, "SCHED_DATABASE_URL", "DATABASE_URL")

	str(&cfg.Log.Level, "SCHED_LOG_LEVEL")
	str(&cfg.Log.Debug, "SCHED_DEBUG")

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	refs := []struct {
		name string
		file string
		dst  *string
	}{
		{"session.secret_file", cfg.Session.SecretFile, &cfg.Session.Secret},
		{"github.client_secret_file", cfg.GitHub.ClientSecretFile, &cfg.GitHub.ClientSecret},
		{"storage.postgres.dsn_file", cfg.Storage.Postgres.DSNFile, &cfg.Storage.Postgres.DSN},
	}

	for _, ref := range refs {
		if ref.file == "" || *ref.dst != "" {
			continue
		}
		val, err := readSecretFile(ref.file)
		if err != nil {
			return fmt.Errorf("%s: %w", ref.name, err)
		}
		*ref.dst = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
