// Package cache stores formatted batches so repeated runs over the same
// input skip formatting.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// Keys are derived by a [Keyer] from a content hash of the input and a
// fingerprint of everything that affects the output: the key
// classification, the lexicon and the program version. Changing any of
// them yields a different key, so stale entries are never served; they
// simply expire.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value. A missing or expired key is a miss
	// (hit == false) and not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// TTLFormat is the default lifetime of a cached batch.
const TTLFormat = 7 * 24 * time.Hour

// Keyer derives cache keys.
type Keyer interface {
	// FormatKey returns the key for a formatted batch.
	FormatKey(inputHash string, opts FormatKeyOpts) string
}

// FormatKeyOpts holds everything besides the input that changes a
// formatted batch.
type FormatKeyOpts struct {
	ConfigHash string `json:"config,omitempty"`
	Version    string `json:"version,omitempty"`
	Salt       string `json:"salt,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form "format:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FormatKey hashes the input hash together with opts.
func (DefaultKeyer) FormatKey(inputHash string, opts FormatKeyOpts) string {
	return hashKey("format", inputHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
