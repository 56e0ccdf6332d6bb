package repositories

import "context"

// KeyValueStore is the persistence port for small string values such as the API credential
type KeyValueStore interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the value, replacing any previous one
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
