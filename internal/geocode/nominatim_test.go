package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/config"
	"github.com/stretchr/testify/require"
)

// Unit-тесты клиента Nominatim на httptest-сервере:
// - параметры запроса и заголовки (Accept-Language, User-Agent);
// - маппинг ответа: id, укороченная подпись, координаты, пропуск пустых имён;
// - ошибки: не-200, битый JSON, отмена контекста;
// - ShortLabel: граничные случаи.

const sample = `[
 {"place_id": 101, "lat": "-23.5505", "lon": "-46.6333",
  "display_name": "São Paulo, Região Imediata de São Paulo, São Paulo, Região Sudeste, Brasil"},
 {"place_id": 102, "lat": "x", "lon": "y", "display_name": "  "},
 {"place_id": 103, "lat": "-22.9", "lon": "-43.2", "display_name": "Rio de Janeiro, Brasil"}
]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(srv.Client(), config.GeocodeConfig{
		BaseURL:        srv.URL + "/",
		UserAgent:      "ElasNoJogo/test",
		AcceptLanguage: "pt-BR",
		Limit:          4,
		MaxSegments:    3,
	})
}

func TestSearch_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("format"))
		require.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		require.Equal(t, "4", r.URL.Query().Get("limit"))
		require.Equal(t, "são paulo", r.URL.Query().Get("q"))
		require.Equal(t, "pt-BR", r.Header.Get("Accept-Language"))
		require.Equal(t, "ElasNoJogo/test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sample))
	})

	got, err := c.Search(context.Background(), "são paulo")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "101", got[0].ID)
	require.Equal(t, "São Paulo, Região Imediata de São Paulo, São Paulo", got[0].Label)
	require.Contains(t, got[0].FullLabel, "Brasil")
	require.InDelta(t, -23.5505, got[0].Lat, 1e-6)
	require.InDelta(t, -46.6333, got[0].Lon, 1e-6)

	require.Equal(t, "Rio de Janeiro, Brasil", got[1].Label)
}

func TestSearch_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := c.Search(context.Background(), "abc")
		require.Error(t, err)
		require.Contains(t, err.Error(), "status=429")
	})

	t.Run("decode", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		})
		_, err := c.Search(context.Background(), "abc")
		require.Error(t, err)
		require.Contains(t, err.Error(), "decode")
	})

	t.Run("context canceled", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("[]"))
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.Search(ctx, "abc")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestNew_Defaults(t *testing.T) {
	c := New(nil, config.GeocodeConfig{})
	require.NotNil(t, c.client)
	require.Equal(t, 5*time.Second, c.client.Timeout)
	require.Equal(t, 6, c.cfg.Limit)
	require.Equal(t, 3, c.cfg.MaxSegments)
}

func TestShortLabel(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"A, B, C, D", 3, "A, B, C"},
		{"A,B", 3, "A, B"},
		{"A, , B, C", 2, "A, B"},
		{"Só", 3, "Só"},
		{"", 3, ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ShortLabel(tt.in, tt.n), tt.in)
	}
}
