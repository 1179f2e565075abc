package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshEntry описывает данные, которые храним в Redis по хэшу refresh-токена.
type RefreshEntry struct {
	UserID    uuid.UUID
	Revoked   bool
	ExpiresAt time.Time
}

// RefreshCache — контракт кэша refresh-токенов.
type RefreshCache interface {
	// Get возвращает запись и признак её наличия в кэше.
	Get(ctx context.Context, hash string) (*RefreshEntry, bool, error)
	// Set сохраняет запись с TTL (обычно ExpiresAt-now).
	Set(ctx context.Context, hash string, e *RefreshEntry, ttl time.Duration) error
	// MarkRevoked помечает ключ revoked=true, сохраняя остаточный TTL.
	MarkRevoked(ctx context.Context, hash string) error
}

type redisRefreshCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRefreshCache возвращает кэш refresh-токенов. Пустой prefix заменяется на "elas:rt:".
func NewRefreshCache(rdb *redis.Client, prefix string) RefreshCache {
	if prefix == "" {
		prefix = "elas:rt:"
	}

	return &redisRefreshCache{rdb: rdb, prefix: prefix}
}

func (c *redisRefreshCache) key(hash string) string { return c.prefix + hash }

// Get читает Redis Hash с полями uid, rev (0/1), exp (unix).
func (c *redisRefreshCache) Get(ctx context.Context, hash string) (*RefreshEntry, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.key(hash)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	uid, err := uuid.Parse(m["uid"])
	if err != nil {
		return nil, false, err
	}

	expUnix, err := strconv.ParseInt(m["exp"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	return &RefreshEntry{
		UserID:    uid,
		Revoked:   m["rev"] == "1",
		ExpiresAt: time.Unix(expUnix, 0).UTC(),
	}, true, nil
}

func (c *redisRefreshCache) Set(ctx context.Context, hash string, e *RefreshEntry, ttl time.Duration) error {
	kv := map[string]string{
		"uid": e.UserID.String(),
		"rev": boolTo01(e.Revoked),
		"exp": strconv.FormatInt(e.ExpiresAt.Unix(), 10),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.key(hash), kv)
	pipe.Expire(ctx, c.key(hash), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// MarkRevoked не создаёт ключ заново, если он уже истёк.
func (c *redisRefreshCache) MarkRevoked(ctx context.Context, hash string) error {
	n, err := c.rdb.Exists(ctx, c.key(hash)).Result()
	if err != nil || n == 0 {
		return err
	}

	return c.rdb.HSet(ctx, c.key(hash), "rev", "1").Err()
}

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
