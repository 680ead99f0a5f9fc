// Package user defines the user record owned by the user store and the
// storage contract the auth gateway depends on.
//
// Storage adapters (memory, postgres) implement Store. The find-then-insert
// upsert policy is enforced by the gateway, not by the adapters: each Store
// operation is atomic at the row level and nothing more.
package user
