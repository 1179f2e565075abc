// cache — кэши поверх Redis:
//   - refresh.go: состояние refresh-токенов (по хэшу);
//   - locations.go: результаты поиска локаций по нормализованному запросу.
//
// Оба кэша работают на одном клиенте Redis, различаясь префиксом ключей.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	const op = "cache/NewRedisClient"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rdb, nil
}
