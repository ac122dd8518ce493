package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/amirrezaask/claimcache/errors"
	"github.com/amirrezaask/claimcache/retry"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	*redis.Client
}

type RedisConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	ConnectRetries int
	ConnectBackoff time.Duration
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewRedis connects to redis and pings it, retrying the ping ConnectRetries times.
func NewRedis(ctx context.Context, c RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         c.Addr(),
		DB:           c.DB,
		Username:     c.Username,
		Password:     c.Password,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	})
	err := retry.Do(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}, c.ConnectRetries, c.ConnectBackoff)
	if err != nil {
		_ = client.Close()
		return nil, errors.Store("ping", "", err)
	}
	return &Redis{client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Store("get", key, err)
	}
	return raw, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	return errors.Store("set", key, r.Client.Set(ctx, key, raw, ttl).Err())
}

func (r *Redis) Del(ctx context.Context, key string) error {
	return errors.Store("del", key, r.Client.Del(ctx, key).Err())
}

// TTL maps redis' -2 (no key) to a miss and -1 (no expire) to NoExpiry.
func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	d, err := r.Client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, errors.Store("ttl", key, err)
	}
	switch d {
	case -2:
		return 0, false, nil
	case -1:
		return NoExpiry, true, nil
	}
	return d, true, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return errors.Store("ping", "", r.Client.Ping(ctx).Err())
}
