package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name entries are stored under
const DefaultService = "meeting-minutes"

// Store keeps values in the operating system keychain
type Store struct {
	service string
}

// NewStore creates a keychain-backed store for service
func NewStore(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

// Get retrieves a value by key
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keyring get: %w", err)
	}
	return value, true, nil
}

// Set stores a value, replacing any previous one
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

// Delete removes a key
func (s *Store) Delete(ctx context.Context, key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
