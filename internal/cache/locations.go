package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/redis/go-redis/v9"
)

// LocationCache — кэш подсказок локаций по нормализованному запросу.
type LocationCache interface {
	// Get возвращает сохранённые подсказки и признак попадания.
	Get(ctx context.Context, query string) ([]models.Location, bool, error)
	// Set сохраняет подсказки на время ttl кэша.
	Set(ctx context.Context, query string, items []models.Location) error
}

type redisLocationCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewLocationCache возвращает кэш локаций. Пустой prefix заменяется на "elas:loc:",
// неположительный ttl — на сутки.
func NewLocationCache(rdb *redis.Client, prefix string, ttl time.Duration) LocationCache {
	if prefix == "" {
		prefix = "elas:loc:"
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &redisLocationCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *redisLocationCache) Get(ctx context.Context, query string) ([]models.Location, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	var items []models.Location
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}

	return items, true, nil
}

// Set кэширует и пустой результат: повторный запрос не уйдёт во внешний сервис.
func (c *redisLocationCache) Set(ctx context.Context, query string, items []models.Location) error {
	if items == nil {
		items = []models.Location{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.prefix+query, raw, c.ttl).Err()
}
