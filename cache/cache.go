// Package cache provides typed, TTL bound repositories over a shared kv.Store.
//
// A Repository is configured once with the TTL of the entry kind it holds; several repositories
// with independent TTLs can share the same store. Values are stored as JSON and decoded strictly on
// read: a stored value whose shape does not fit the requested type is reported as
// *errors.DeserializationError, never as a miss. A stored JSON null carries no value and reads as a
// miss.
package cache

import (
	"bytes"
	"context"
	"reflect"
	"time"

	"github.com/amirrezaask/claimcache/errors"
	"github.com/amirrezaask/claimcache/kv"
)

type Repository[T any] struct {
	store kv.Store
	ttl   time.Duration
}

// New returns a Repository writing every entry with a ttl of ttlSeconds. Zero means entries never expire.
func New[T any](store kv.Store, ttlSeconds int64) (*Repository[T], error) {
	if store == nil {
		return nil, errors.InvalidArgument("store must not be nil")
	}
	if ttlSeconds < 0 {
		return nil, errors.InvalidArgument("ttl must not be negative, got %d", ttlSeconds)
	}
	return &Repository[T]{
		store: store,
		ttl:   time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (r *Repository[T]) TTL() time.Duration { return r.ttl }

// Get returns the value under key and whether it was present.
func (r *Repository[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var value T
	if key == "" {
		return value, false, errors.InvalidArgument("key must not be empty")
	}

	raw, ok, err := r.store.Get(ctx, key)
	if err != nil || !ok {
		return value, false, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return value, false, nil
	}

	if err := codec.Unmarshal(raw, &value); err != nil {
		var zero T
		return zero, false, &errors.DeserializationError{Target: typeName[T](), Key: key, Cause: err}
	}
	return value, true, nil
}

func (r *Repository[T]) Set(ctx context.Context, key string, value T) error {
	if key == "" {
		return errors.InvalidArgument("key must not be empty")
	}
	if isNil(value) {
		return errors.InvalidArgument("value for key('%s') must not be nil", key)
	}

	raw, err := codec.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "error in encoding %s for key('%s')", typeName[T](), key)
	}
	return r.store.Set(ctx, key, raw, r.ttl)
}

// Delete removes key. Deleting an absent key is not an error.
func (r *Repository[T]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.InvalidArgument("key must not be empty")
	}
	return r.store.Del(ctx, key)
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
