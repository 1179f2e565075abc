package service

// Тесты сервисного слоя elas-no-jogo.
//
//  Проверяем:
//  - валидацию входов;
//  - маппинг ошибок storage -> service (InvalidArgument / NotFound / AlreadyExists / Internal);
//  - поведение опциональных зависимостей (кэши, геокодер, метрики) при nil и при сбоях;
//  - happy-path каждого метода.
//
// Запуск:
//   go test ./internal/service -v -race -count=1
//
// Моки лежат в пакете /mocks (mockgen, reflect mode).

import (
	"crypto/sha256"
	"encoding/base64"
	"math"
	"testing"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/config"
	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type svcMocks struct {
	st     *mocks.MockStorage
	media  *mocks.MockMediaStorage
	rcache *mocks.MockRefreshCache
	lcache *mocks.MockLocationCache
	geo    *mocks.MockGeocoder
}

func testCfg() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "unit-secret",
			AccessTokenTTL:  30 * time.Second,
			RefreshTokenTTL: 24 * time.Hour,
			Issuer:          "elas-no-jogo",
			Audience:        []string{"elas-no-jogo-app"},
			CleanupInterval: 20 * time.Millisecond,
		},
		Media: config.MediaConfig{MaxDurationSeconds: 60},
		Feed:  config.FeedConfig{DefaultPageSize: 10, MaxPageSize: 50},
		Geocode: config.GeocodeConfig{
			MinQueryLength: 3,
		},
	}
}

// newSvc собирает сервис без кэшей и геокодера.
func newSvc(t *testing.T) (*Service, *svcMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &svcMocks{
		st:     mocks.NewMockStorage(ctrl),
		media:  mocks.NewMockMediaStorage(ctrl),
		rcache: mocks.NewMockRefreshCache(ctrl),
		lcache: mocks.NewMockLocationCache(ctrl),
		geo:    mocks.NewMockGeocoder(ctrl),
	}

	return New(m.st, m.media, testCfg()), m
}

func refreshHash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()

	h, err := hashPassword(pw)
	require.NoError(t, err)

	return h
}

func TestNormalizeListOptions(t *testing.T) {
	s, _ := newSvc(t)

	tests := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"defaults", 0, 0, 0, 10},
		{"negative page", -3, 5, 0, 5},
		{"clamped", 2, 500, 2, 50},
		{"negative size", 1, -1, 1, 10},
		{"page capped", math.MaxInt, 50, models.MaxPage, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.normalizeListOptions(models.ListOptions{Page: tt.page, PageSize: tt.size})
			require.Equal(t, tt.wantPage, got.Page)
			require.Equal(t, tt.wantSize, got.PageSize)
		})
	}
}
