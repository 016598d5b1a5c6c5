package lexicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces lexicon entries in Redis.
const DefaultRedisPrefix = "lexicon:"

// RedisSource is a Remote backed by Redis. Each entry is stored as a JSON
// document under prefix+sense.
type RedisSource struct {
	client *redis.Client
	prefix string
}

// NewRedisSource connects to the Redis server at url. An empty prefix
// uses DefaultRedisPrefix. The connection is not checked until the first
// lookup.
func NewRedisSource(url, prefix string) (*RedisSource, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSource{client: redis.NewClient(opts), prefix: prefix}, nil
}

// LookupContext fetches and decodes one entry. A missing key is ErrNotFound.
func (s *RedisSource) LookupContext(ctx context.Context, sense string) (*Entry, error) {
	data, err := s.client.Get(ctx, s.prefix+sense).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", sense, err)
	}
	if e.Sense == "" {
		e.Sense = sense
	}
	return &e, nil
}

// Store writes an entry under its sense.
func (s *RedisSource) Store(ctx context.Context, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+e.Sense, data, 0).Err()
}

// Close closes the client connection pool.
func (s *RedisSource) Close() error {
	return s.client.Close()
}
