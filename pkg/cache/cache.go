package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
// Infrastructure failures are returned as-is and must not be
// confused with a miss.
var ErrMiss = errors.New("cache miss")

// Store is the key-value contract the services cache against.
// Values are opaque byte slices; callers handle serialization.
type Store interface {
	// Get returns the value stored under key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A zero ttl
	// stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key and reports how many entries were removed.
	Delete(ctx context.Context, key string) (int64, error)

	// Pipeline returns a batch writer for queueing multiple sets
	// committed in a single round trip.
	Pipeline() Pipeline
}

// Pipeline queues writes and commits them with Exec. It is not
// transactional; partially applied batches are possible on failure.
type Pipeline interface {
	Set(key string, value []byte, ttl time.Duration)
	Exec(ctx context.Context) error
}
