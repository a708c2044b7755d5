package rdb

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// GetCachedData tries to get the data from Redis first.
// On a cache miss it calls the callable and caches the result.
// A nil service bypasses the cache altogether.
// Cache errors are only logged, callable errors are returned and never cached.
func GetCachedData[T any](
	ctx context.Context,
	rdb *Service,
	cacheKey string,
	cacheTimeout time.Duration,
	callable func() (T, error), // Function to call if cache miss
) (T, error) {

	var zero, data T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if rdb == nil {
		return callable()
	}

	// The underlying data type needs to implement
	// the encoding.BinaryUnmarshaler interface if needed.
	err := rdb.Client.Get(ctx, cacheKey).Scan(&data)
	if err == nil {
		return data, nil
	}

	if !errors.Is(err, redis.Nil) {
		rdb.log.Warn("failed to get data from Redis", zap.String("key", cacheKey), zap.Error(err))
	}

	data, err = callable()
	if err != nil {
		return zero, err
	}

	// The underlying data type needs to implement
	// the encoding.BinaryMarshaler interface if needed.
	if err = rdb.Client.Set(ctx, cacheKey, data, cacheTimeout).Err(); err != nil {
		rdb.log.Warn("failed to set cache in Redis", zap.String("key", cacheKey), zap.Error(err))
	}

	return data, nil
}
