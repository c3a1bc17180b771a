package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// ErrUnsealable is returned when a stored value cannot be decrypted with the configured key.
var ErrUnsealable = errors.New("storage: value cannot be unsealed")

const nonceSize = 24

// Sealed encrypts values with NaCl secretbox before handing them to the inner store.
type Sealed struct {
	inner Storage
	key   [32]byte
}

// NewSealed wraps inner with a 32-byte key given as 64 hex characters.
func NewSealed(inner Storage, hexKey string) (*Sealed, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("storage: seal key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("storage: seal key must be 32 bytes, got %d", len(raw))
	}
	s := &Sealed{inner: inner}
	copy(s.key[:], raw)
	return s, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	raw, err := base64.RawStdEncoding.DecodeString(v)
	if err != nil || len(raw) < nonceSize {
		return "", ErrUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnsealable
	}
	return string(plain), nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("storage: nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.inner.Set(ctx, key, base64.RawStdEncoding.EncodeToString(box))
}

func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
