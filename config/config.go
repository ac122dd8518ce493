// Package config reads the process configuration from the environment (and .env).
package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirrezaask/claimcache/env"
	"github.com/amirrezaask/claimcache/errors"
	"github.com/amirrezaask/claimcache/kv"
	"github.com/amirrezaask/claimcache/logging"
	"github.com/amirrezaask/claimcache/vault"
	"github.com/getsentry/sentry-go"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
)

type Config struct {
	Service  string
	HTTPAddr string

	Store     string
	SQLDSN    string
	Namespace string
	Redis     kv.RedisConfig
	Vault     *vault.Config

	// TTLs in seconds, one per cached entry kind.
	ClaimTTLSeconds  int64
	SearchTTLSeconds int64

	Logging logging.Config
	Tracing bool
}

func Load() (Config, error) {
	var errs []error
	intEnv := func(key string, def int64) int64 {
		n, err := env.GetEnvInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}
	boolEnv := func(key string, def bool) bool {
		b, err := env.GetEnvBool(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return b
	}
	requiredEnv := func(key, reason string) string {
		v := env.GetEnvDefault(key, "")
		if v == "" {
			errs = append(errs, errors.Newf("`%s` is required when %s", key, reason))
		}
		return v
	}

	c := Config{
		Service:   env.GetEnvDefault("SERVICE_NAME", "claimcache"),
		HTTPAddr:  env.GetEnvDefault("HTTP_ADDR", ":8080"),
		Store:     env.GetEnvDefault("CACHE_STORE", StoreRedis),
		SQLDSN:    env.GetEnvDefault("CACHE_SQL_DSN", "file:claimcache.db?cache=shared"),
		Namespace: env.GetEnvDefault("CACHE_NAMESPACE", "claimcache"),
		Redis: kv.RedisConfig{
			Host:           env.GetEnvDefault("REDIS_HOST", "localhost"),
			Port:           int(intEnv("REDIS_PORT", 6379)),
			Username:       env.GetEnvDefault("REDIS_USERNAME", ""),
			Password:       env.GetEnvDefault("REDIS_PASSWORD", ""),
			DB:             int(intEnv("REDIS_DB", 0)),
			DialTimeout:    time.Duration(intEnv("REDIS_DIAL_TIMEOUT_MS", 5000)) * time.Millisecond,
			ReadTimeout:    time.Duration(intEnv("REDIS_READ_TIMEOUT_MS", 3000)) * time.Millisecond,
			WriteTimeout:   time.Duration(intEnv("REDIS_WRITE_TIMEOUT_MS", 3000)) * time.Millisecond,
			ConnectRetries: int(intEnv("REDIS_CONNECT_RETRIES", 3)),
			ConnectBackoff: time.Duration(intEnv("REDIS_CONNECT_BACKOFF_MS", 500)) * time.Millisecond,
		},
		ClaimTTLSeconds:  intEnv("CACHE_CLAIM_TTL_SECONDS", 900),
		SearchTTLSeconds: intEnv("CACHE_SEARCH_TTL_SECONDS", 300),
		Logging: logging.Config{
			LogLevel: logging.ParseLevel(env.GetEnvDefault("LOG_LEVEL", "info")),
			SentryConfig: sentry.ClientOptions{
				Dsn:         env.GetEnvDefault("SENTRY_DSN", ""),
				Environment: env.GetEnvDefault("SENTRY_ENVIRONMENT", ""),
			},
		},
		Tracing: boolEnv("TRACING_ENABLED", false),
	}
	c.Logging.Service = c.Service

	if addr := env.GetEnvDefault("VAULT_ADDRESS", ""); addr != "" {
		c.Vault = &vault.Config{
			VaultAddress:  addr,
			VaultRoleId:   requiredEnv("VAULT_ROLE_ID", "VAULT_ADDRESS is set"),
			VaultSecretId: requiredEnv("VAULT_SECRET_ID", "VAULT_ADDRESS is set"),
			MountPath:     env.GetEnvDefault("VAULT_MOUNT_PATH", "secret"),
			SecretPath:    env.GetEnvDefault("VAULT_SECRET_PATH", "claimcache"),
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, errors.Wrap(err, "error in loading config")
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreRedis, StoreMemory, StoreSQLite, StoreMySQL:
	default:
		return errors.InvalidArgument("unknown CACHE_STORE '%s'", c.Store)
	}
	if c.ClaimTTLSeconds < 0 || c.SearchTTLSeconds < 0 {
		return errors.InvalidArgument("cache ttls must not be negative")
	}
	return nil
}

// ResolveSecrets fills the redis credentials from vault when vault is configured.
func (c *Config) ResolveSecrets(ctx context.Context) error {
	if c.Vault == nil || c.Store != StoreRedis {
		return nil
	}
	client, err := vault.NewClient(ctx, *c.Vault)
	if err != nil {
		return errors.Wrap(err, "error in connecting to vault")
	}
	creds, err := client.RedisCredentials(ctx, *c.Vault)
	if err != nil {
		return errors.Wrap(err, "error in reading redis credentials from vault")
	}
	if creds.Username != "" {
		c.Redis.Username = creds.Username
	}
	c.Redis.Password = creds.Password
	slog.Info("redis credentials loaded from vault", "path", c.Vault.SecretPath)
	return nil
}
