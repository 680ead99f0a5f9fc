package callback

import (
	"context"
	"errors"

	"github.com/sinabro/schedbird/pkg/debug"
	"github.com/sinabro/schedbird/pkg/observability"
	"github.com/sinabro/schedbird/pkg/storage"
	"github.com/sinabro/schedbird/pkg/user"
)

// Upsert records a successful login: insert if the id is unseen, else
// replace scope and live token. A concurrent first login that wins the
// insert makes ours fail with storage.ErrConflict; we then re-read and
// update, so the last writer wins.
func Upsert(ctx context.Context, store user.Store, id, scope, liveToken string) (*user.User, error) {
	u := &user.User{ID: id, Scope: scope, LiveToken: liveToken}

	_, err := store.FindByID(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		err = store.Insert(ctx, u)
		if err == nil {
			observability.UserUpsertsTotal.WithLabelValues("created").Inc()
			debug.Log("storage", "user created", "user", id, "scope", scope)
			return u, nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, err
		}
		debug.Log("storage", "concurrent first login, updating instead", "user", id)
		if _, err := store.FindByID(ctx, id); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if err := store.Update(ctx, u); err != nil {
		return nil, err
	}
	observability.UserUpsertsTotal.WithLabelValues("updated").Inc()
	debug.Log("storage", "user updated", "user", id, "scope", scope)
	return u, nil
}
