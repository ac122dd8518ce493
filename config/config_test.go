package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/amirrezaask/claimcache/errors"
	"github.com/matryer/is"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	c, err := Load()
	is.NoErr(err)
	is.Equal(c.Store, StoreRedis)
	is.Equal(c.ClaimTTLSeconds, int64(900))
	is.Equal(c.SearchTTLSeconds, int64(300))
	is.Equal(c.Redis.Addr(), "localhost:6379")
	is.Equal(c.Redis.ConnectBackoff, 500*time.Millisecond)
	is.True(c.Vault == nil)
}

func TestLoadFromEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("CACHE_STORE", "memory")
	t.Setenv("CACHE_CLAIM_TTL_SECONDS", "60")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("VAULT_ADDRESS", "https://vault.internal:8200")
	t.Setenv("VAULT_ROLE_ID", "role")
	t.Setenv("VAULT_SECRET_ID", "secret")

	c, err := Load()
	is.NoErr(err)
	is.Equal(c.Store, StoreMemory)
	is.Equal(c.ClaimTTLSeconds, int64(60))
	is.Equal(c.Redis.Addr(), "redis.internal:6380")
	is.Equal(c.Logging.LogLevel, slog.LevelDebug)
	is.Equal(c.Vault.VaultAddress, "https://vault.internal:8200")
	is.Equal(c.Vault.MountPath, "secret")
}

func TestLoadRejectsBadValues(t *testing.T) {
	is := is.New(t)

	t.Setenv("CACHE_CLAIM_TTL_SECONDS", "fifteen minutes")
	_, err := Load()
	is.True(err != nil)

	t.Setenv("CACHE_CLAIM_TTL_SECONDS", "-5")
	_, err = Load()
	is.True(errors.Is(err, errors.ErrInvalidArgument))

	t.Setenv("CACHE_CLAIM_TTL_SECONDS", "5")
	t.Setenv("CACHE_STORE", "memcached")
	_, err = Load()
	is.True(errors.Is(err, errors.ErrInvalidArgument))
}

func TestLoadVaultWithoutCredentials(t *testing.T) {
	is := is.New(t)
	t.Setenv("VAULT_ADDRESS", "https://vault.internal:8200")
	t.Setenv("VAULT_SECRET_ID", "secret")

	_, err := Load()
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "VAULT_ROLE_ID"))
	is.True(!strings.Contains(err.Error(), "VAULT_SECRET_ID"))

	t.Setenv("VAULT_SECRET_ID", "")
	_, err = Load()
	is.True(strings.Contains(err.Error(), "VAULT_ROLE_ID"))
	is.True(strings.Contains(err.Error(), "VAULT_SECRET_ID"))
}
