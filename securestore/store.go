// Package securestore keeps session credentials sealed at rest.
package securestore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/status-im/market-game/cache"
)

const (
	// Table is the SQLite table holding sealed values
	Table = "secure_kv"

	saltKey   = "__salt"
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// ErrDecrypt is returned when a stored value cannot be opened with the
// configured passphrase.
var ErrDecrypt = errors.New("secure store: value cannot be decrypted")

// Store is a string key/value store whose values are sealed with secretbox.
// Keys are stored in clear.
type Store struct {
	storage cache.Storage
	key     [keySize]byte
}

// New derives the sealing key from passphrase and the salt persisted in
// storage, creating the salt on first use.
func New(ctx context.Context, storage cache.Storage, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("secure store passphrase is empty")
	}

	salt, found, err := storage.Read(ctx, saltKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}
	if !found || len(salt) != saltSize {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		if err := storage.Write(ctx, saltKey, salt); err != nil {
			return nil, fmt.Errorf("failed to persist salt: %w", err)
		}
	}

	derived, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	s := &Store{storage: storage}
	copy(s.key[:], derived)
	return s, nil
}

// Get returns the value for key. found is false when nothing is stored.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, found, err := s.storage.Read(ctx, key)
	if err != nil || !found {
		return "", false, err
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", false, ErrDecrypt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", false, ErrDecrypt
	}
	return string(plain), true, nil
}

// Set seals value under a fresh nonce and stores it
func (s *Store) Set(ctx context.Context, key, value string) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.storage.Write(ctx, key, sealed)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}
