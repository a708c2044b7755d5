package rdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// GetVersionedData caches the data under a key tied to the current
// value of the version key. Bump retires every entry cached before it,
// including one a slow reader sets after the bump.
func GetVersionedData[T any](
	ctx context.Context,
	rdb *Service,
	versionKey, cacheKey string,
	cacheTimeout time.Duration,
	callable func() (T, error),
) (T, error) {

	if rdb == nil || ctx.Err() != nil {
		return GetCachedData(ctx, nil, cacheKey, cacheTimeout, callable)
	}

	// A missing version key is version zero
	version, err := rdb.Client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		rdb.log.Warn("failed to get cache version", zap.String("key", versionKey), zap.Error(err))
		return GetCachedData(ctx, nil, cacheKey, cacheTimeout, callable)
	}

	return GetCachedData(ctx, rdb, versionedKey(cacheKey, version), cacheTimeout, callable)
}

// Bump increments the version key and drops the entry
// cached under the previous version.
func (rs *Service) Bump(ctx context.Context, versionKey, cacheKey string) {
	if rs == nil {
		return
	}

	version, err := rs.Client.Incr(ctx, versionKey).Result()
	if err != nil {
		rs.log.Warn("failed to bump cache version", zap.String("key", versionKey), zap.Error(err))
		return
	}

	rs.Delete(ctx, versionedKey(cacheKey, version-1))
}

func versionedKey(key string, version int64) string {
	return fmt.Sprintf("%s:v%d", key, version)
}
