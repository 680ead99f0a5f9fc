package user

import "context"

// DefaultScope is the partition assigned to users with no explicit scope.
const DefaultScope = "home"

// User is a person known to the system, keyed by their identity-provider login.
type User struct {
	// ID is the external identity-provider login. Unique.
	ID string `json:"id"`

	// Scope is the partition (tenant/group) the user and their data belong to.
	Scope string `json:"scope"`

	// LiveToken is the most recent provider access token. Never serialized.
	LiveToken string `json:"-"`
}

// Store persists users. Implementations must be safe for concurrent use.
type Store interface {
	// FindByID returns the user with the given ID, or storage.ErrNotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByLiveToken returns the user whose live token matches, or
	// storage.ErrNotFound. An empty token never matches.
	FindByLiveToken(ctx context.Context, token string) (*User, error)

	// Insert creates a new user. Returns storage.ErrConflict if the ID exists.
	Insert(ctx context.Context, u *User) error

	// Update replaces the mutable fields (scope, live token) of an existing
	// user. Returns storage.ErrNotFound if the ID does not exist.
	Update(ctx context.Context, u *User) error
}
