package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/storage"
	"github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// IdentityKey is the storage key holding the serialized identity record.
const IdentityKey = "oasis_user"

// lookupStatus tags the outcome of one restoration lookup.
type lookupStatus int

const (
	lookupAbsent lookupStatus = iota
	lookupFound
	lookupMalformed
)

func (s lookupStatus) String() string {
	switch s {
	case lookupFound:
		return "found"
	case lookupMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

type lookup struct {
	status   lookupStatus
	identity domain.Identity
	err      error
}

// IdentityStore persists the reconciled identity next to the credential.
type IdentityStore struct {
	store storage.Storage
}

// NewIdentityStore returns an identity store over store.
func NewIdentityStore(store storage.Storage) *IdentityStore {
	return &IdentityStore{store: store}
}

// Save writes the identity record.
func (s *IdentityStore) Save(ctx context.Context, identity domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.store.Set(ctx, IdentityKey, string(raw))
}

// Clear removes the identity record.
func (s *IdentityStore) Clear(ctx context.Context) error {
	return s.store.Remove(ctx, IdentityKey)
}

// load reads the persisted identity. Unreadable or invalid records are
// reported as malformed with a storage-unavailable error.
func (s *IdentityStore) load(ctx context.Context) lookup {
	raw, err := s.store.Get(ctx, IdentityKey)
	if errors.Is(err, storage.ErrNotFound) {
		return lookup{status: lookupAbsent}
	}
	if err != nil {
		return lookup{status: lookupMalformed, err: errorutil.NewStorageUnavailable(err)}
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return lookup{status: lookupMalformed, err: errorutil.NewStorageUnavailable(err)}
	}
	if err := identity.Validate(); err != nil {
		return lookup{status: lookupMalformed, err: errorutil.NewStorageUnavailable(err)}
	}
	return lookup{status: lookupFound, identity: identity}
}
