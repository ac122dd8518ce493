package kv

import (
	"time"

	"github.com/go-redis/redismock/v9"
)

type RedisMock struct {
	redismock.ClientMock
}

func (r *RedisMock) ExpectStored(key string, raw []byte) {
	r.ExpectGet(key).SetVal(string(raw))
}

func (r *RedisMock) ExpectMissing(key string) {
	r.ExpectGet(key).RedisNil()
}

func (r *RedisMock) ExpectWrite(key string, raw []byte, ttl time.Duration) {
	r.ExpectSet(key, raw, ttl).SetVal("OK")
}

func (r *RedisMock) ExpectRemove(key string, existed bool) {
	var n int64
	if existed {
		n = 1
	}
	r.ExpectDel(key).SetVal(n)
}

func (r *RedisMock) ExpectRemaining(key string, ttl time.Duration) {
	r.ExpectTTL(key).SetVal(ttl)
}

func NewRedisMock(target **Redis) *RedisMock {
	client, mock := redismock.NewClientMock()
	*target = &Redis{client}
	return &RedisMock{mock}
}
