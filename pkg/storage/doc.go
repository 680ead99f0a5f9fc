// Package storage provides sentinel errors shared across the user store
// adapters.
//
// Storage adapters (memory, postgres) implement the user.Store interface
// defined in pkg/user. This package contains only shared errors, not the
// interface itself.
package storage
