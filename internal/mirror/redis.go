package mirror

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps the mirror in Redis so several server instances can
// share one local copy. Keys are namespaced with prefix.
type RedisBackend struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisBackend wraps an already connected client.
func NewRedisBackend(rdb redis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (r *RedisBackend) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, classifyRedisErr(err)
	}
	return b, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return classifyRedisErr(err)
	}
	return nil
}

// classifyRedisErr maps maxmemory rejections ("OOM command not allowed")
// to ErrStorageFull and everything else to ErrStorageUnavailable.
func classifyRedisErr(err error) error {
	if strings.HasPrefix(err.Error(), "OOM") {
		return errors.Wrap(ErrStorageFull, err.Error())
	}
	return errors.Wrap(ErrStorageUnavailable, err.Error())
}
