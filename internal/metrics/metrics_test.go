package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// Unit-тесты metrics: регистрация на отдельном реестре, значения счётчиков,
// безопасность nil-получателя.

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("/api/v1/videos", "GET", 200, 15*time.Millisecond)
	m.ObserveHTTP("/api/v1/videos", "GET", 200, 5*time.Millisecond)
	m.ObserveHTTP("", "GET", 404, time.Millisecond)
	m.ViewCounted()
	m.LikeToggled(true)
	m.LikeToggled(false)
	m.LikeToggled(true)
	m.UploadConfirmed("videos")
	m.LocationLookup("cache")

	require.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/videos", "GET", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "GET", "404")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.views))
	require.Equal(t, 2.0, testutil.ToFloat64(m.likes.WithLabelValues("liked")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.likes.WithLabelValues("unliked")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("videos")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.locationHits.WithLabelValues("cache")))

	n, err := testutil.GatherAndCount(reg, "elas_http_request_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.ObserveHTTP("/", "GET", 200, time.Millisecond)
		m.ViewCounted()
		m.LikeToggled(true)
		m.UploadConfirmed("avatars")
		m.LocationLookup("geocoder")
	})
}
