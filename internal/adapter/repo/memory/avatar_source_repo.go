package memory

import (
	"context"

	"mensaplan/internal/app/ports"
)

type AvatarSourceRepo struct {
	store *Store
}

func NewAvatarSourceRepo(store *Store) AvatarSourceRepo {
	return AvatarSourceRepo{store: store}
}

func (r AvatarSourceRepo) Upsert(_ context.Context, source ports.AvatarSourceRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sources[source.UserID] = source
	return nil
}

func (r AvatarSourceRepo) GetByUserID(_ context.Context, userID string) (ports.AvatarSourceRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	source, ok := r.store.sources[userID]
	if !ok {
		return ports.AvatarSourceRecord{}, ports.ErrNotFound
	}
	return source, nil
}
