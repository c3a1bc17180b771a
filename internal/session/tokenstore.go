package session

import (
	"context"
	"errors"

	"github.com/oasis-hotel/portal/internal/storage"
)

// TokenKey is the storage key holding the raw bearer credential.
const TokenKey = "oasis_token"

// TokenStore persists the bearer credential. It performs no expiry checks.
type TokenStore struct {
	store storage.Storage
}

// NewTokenStore returns a token store over store.
func NewTokenStore(store storage.Storage) *TokenStore {
	return &TokenStore{store: store}
}

// Save replaces the stored credential.
func (t *TokenStore) Save(ctx context.Context, credential string) error {
	return t.store.Set(ctx, TokenKey, credential)
}

// Read returns the stored credential; found is false when none is stored.
func (t *TokenStore) Read(ctx context.Context) (credential string, found bool, err error) {
	credential, err = t.store.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return credential, credential != "", nil
}

// Clear removes the credential.
func (t *TokenStore) Clear(ctx context.Context) error {
	return t.store.Remove(ctx, TokenKey)
}
