package test

import (
	"testing"

	"github.com/amirrezaask/claimcache/kv"
)

// Redis returns a redis store backed by redismock. Unmet expectations fail t at cleanup.
func Redis(t *testing.T) (*kv.Redis, *kv.RedisMock) {
	t.Helper()
	var client *kv.Redis
	mock := kv.NewRedisMock(&client)
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("redis expectations: %v", err)
		}
	})
	return client, mock
}
