package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты пакета cache:
// - поднимают Redis через testcontainers-go (образ redis:7-alpine);
// - RefreshCache: Set/Get round-trip, промах, MarkRevoked с сохранением TTL
//   и без воскрешения отсутствующего ключа;
// - LocationCache: round-trip, промах, кэширование пустого результата, TTL.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -race -count=1

func startRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	rdb, err := NewRedisClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)

	return rdb, func() {
		_ = rdb.Close()
		_ = c.Terminate(context.Background())
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "://bad")
	require.Error(t, err)
}

func TestIntegration_RefreshCache(t *testing.T) {
	rdb, cleanup := startRedis(t)
	defer cleanup()
	ctx := context.Background()

	c := NewRefreshCache(rdb, "")

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	uid := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	require.NoError(t, c.Set(ctx, "h1", &RefreshEntry{UserID: uid, ExpiresAt: exp}, time.Hour))

	e, ok, err := c.Get(ctx, "h1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uid, e.UserID)
	require.False(t, e.Revoked)
	require.True(t, exp.Equal(e.ExpiresAt))

	require.NoError(t, c.MarkRevoked(ctx, "h1"))
	e, ok, err = c.Get(ctx, "h1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, e.Revoked)

	ttl, err := rdb.TTL(ctx, "elas:rt:h1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	// Отзыв отсутствующего ключа не создаёт запись без TTL.
	require.NoError(t, c.MarkRevoked(ctx, "gone"))
	n, err := rdb.Exists(ctx, "elas:rt:gone").Result()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIntegration_LocationCache(t *testing.T) {
	rdb, cleanup := startRedis(t)
	defer cleanup()
	ctx := context.Background()

	c := NewLocationCache(rdb, "test:loc:", time.Minute)

	_, ok, err := c.Get(ctx, "sao paulo")
	require.NoError(t, err)
	require.False(t, ok)

	items := []models.Location{{ID: "1", Label: "São Paulo, SP, Brasil", FullLabel: "São Paulo, Região Sudeste, Brasil", Lat: -23.55, Lon: -46.63}}
	require.NoError(t, c.Set(ctx, "sao paulo", items))

	got, ok, err := c.Get(ctx, "sao paulo")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, items, got)

	require.NoError(t, c.Set(ctx, "zzzz", nil))
	got, ok, err = c.Get(ctx, "zzzz")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)

	ttl, err := rdb.TTL(ctx, "test:loc:sao paulo").Result()
	require.NoError(t, err)
	require.LessOrEqual(t, ttl, time.Minute)
	require.Greater(t, ttl, time.Duration(0))
}
