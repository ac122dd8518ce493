// Package kv holds the key-value stores the cache repositories are built on.
//
// Every Store reports an absent key as a miss (ok == false) and never as an error.
// Failures to reach the backing store are reported as *errors.StoreError.
package kv

import (
	"context"
	"time"
)

// NoExpiry is reported by TTL for keys that are present but never expire.
const NoExpiry time.Duration = -1

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes raw under key, replacing any previous value and expiry. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, raw []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	TTL(ctx context.Context, key string) (time.Duration, bool, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
