// Package storage provides origin-scoped durable key-value stores that hold
// the portal's client-side state. Every write is durable once the call returns
// and is visible to every reader of the same origin.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key-value store scoped to one origin.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

func scopedKey(origin, key string) string {
	return origin + "|" + key
}
