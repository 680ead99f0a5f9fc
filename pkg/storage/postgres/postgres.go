// Package postgres provides a PostgreSQL implementation of user.Store.
// It uses pgx/v5 for connection pooling.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sinabro/schedbird/pkg/storage"
	"github.com/sinabro/schedbird/pkg/user"
)

// uniqueViolation is the SQLSTATE raised on a primary key collision.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed user.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements user.Store at compile time.
var _ user.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// FindByID returns the user with the given external ID.
func (s *Store) FindByID(ctx context.Context, id string) (*user.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, scope, COALESCE(live_token, '') FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByLiveToken returns the user currently holding the given provider token.
func (s *Store) FindByLiveToken(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, storage.ErrNotFound
	}
	row := s.pool.QueryRow(ctx,
		`SELECT id, scope, COALESCE(live_token, '') FROM users WHERE live_token = $1
		 ORDER BY updated_at DESC LIMIT 1`, token)
	return scanUser(row)
}

// Insert creates a user row. A second insert for the same ID returns
// storage.ErrConflict.
func (s *Store) Insert(ctx context.Context, u *user.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, scope, live_token) VALUES ($1, $2, $3)`,
		u.ID, u.Scope, nullString(u.LiveToken),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// Update replaces the scope and live token of an existing user.
func (s *Store) Update(ctx context.Context, u *user.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET scope = $2, live_token = $3, updated_at = now() WHERE id = $1`,
		u.ID, u.Scope, nullString(u.LiveToken),
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Scope, &u.LiveToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// nullString converts an empty string to nil for nullable TEXT columns.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation.
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
