package providers

import (
	"context"
)

// CacheProvider is the byte-oriented cache used for geocoding results,
// static map tiles and HTTP response caching. TTLs are in seconds; a
// non-positive TTL means no expiration.
type CacheProvider interface {
	// Get retrieves a value; an error signals a miss or backend failure
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an expiration in seconds
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value
	Delete(ctx context.Context, key string) error

	// Exists checks if a key is present
	Exists(ctx context.Context, key string) (bool, error)
}
