package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
)

// DefaultKey is the storage key of the API credential
const DefaultKey = "openai_api_key"

const requiredPrefix = "sk-"

// Status describes the stored credential without revealing it
type Status struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
}

// Store holds the single API credential used for generation.
// At most one credential exists at a time.
type Store struct {
	kv     repositories.KeyValueStore
	key    string
	logger *zap.Logger
}

// NewStore creates a credential store on top of a key-value backend
func NewStore(kv repositories.KeyValueStore, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key, logger: logger}
}

// Validate trims the raw value and checks the credential format
func Validate(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", entities.ErrMissingCredential
	}
	if !strings.HasPrefix(key, requiredPrefix) {
		return "", entities.ErrInvalidCredential
	}
	return key, nil
}

// Mask keeps the prefix and the last four characters
func Mask(key string) string {
	if len(key) <= len(requiredPrefix)+4 {
		return requiredPrefix + "****"
	}
	return key[:len(requiredPrefix)] + "..." + key[len(key)-4:]
}

// Get returns the stored credential or ErrMissingCredential
func (s *Store) Get(ctx context.Context) (string, error) {
	value, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	if !ok || value == "" {
		return "", entities.ErrMissingCredential
	}
	return value, nil
}

// Set validates and stores the credential, replacing any previous one
func (s *Store) Set(ctx context.Context, raw string) error {
	key, err := Validate(raw)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, key); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🔑 API credential saved", zap.String("credential", Mask(key)))
	}
	return nil
}

// Clear removes the stored credential
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ API credential cleared")
	}
	return nil
}

// Status reports whether a credential is configured
func (s *Store) Status(ctx context.Context) (Status, error) {
	value, err := s.Get(ctx)
	if errors.Is(err, entities.ErrMissingCredential) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Configured: true, Masked: Mask(value)}, nil
}
