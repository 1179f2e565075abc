// metrics — прикладные метрики Prometheus: HTTP API и доменные события.
// gRPC-метрики собирает go-grpc-prometheus отдельно.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "elas"

// Metrics — набор коллекторов. Методы безопасны для nil-получателя,
// поэтому слои могут работать без метрик (тесты, утилиты).
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	views        prometheus.Counter
	likes        *prometheus.CounterVec
	uploads      *prometheus.CounterVec
	locationHits *prometheus.CounterVec
}

// New регистрирует коллекторы в reg (обычно prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		views: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "videos",
			Name:      "views_total",
			Help:      "Counted video views.",
		}),
		likes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "videos",
			Name:      "like_toggles_total",
			Help:      "Like toggles by resulting state.",
		}, []string{"state"}),
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "uploads_confirmed_total",
			Help:      "Confirmed media uploads by kind.",
		}, []string{"kind"}),
		locationHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "locations",
			Name:      "lookups_total",
			Help:      "Location lookups by source (cache, geocoder).",
		}, []string{"source"}),
	}
}

// ObserveHTTP фиксирует завершённый HTTP-запрос.
func (m *Metrics) ObserveHTTP(route, method string, code int, dur time.Duration) {
	if m == nil {
		return
	}

	if route == "" {
		route = "unmatched"
	}

	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ViewCounted — засчитан просмотр.
func (m *Metrics) ViewCounted() {
	if m == nil {
		return
	}

	m.views.Inc()
}

// LikeToggled — переключён лайк; liked — итоговое состояние.
func (m *Metrics) LikeToggled(liked bool) {
	if m == nil {
		return
	}

	state := "unliked"
	if liked {
		state = "liked"
	}

	m.likes.WithLabelValues(state).Inc()
}

// UploadConfirmed — подтверждена загрузка объекта вида kind.
func (m *Metrics) UploadConfirmed(kind string) {
	if m == nil {
		return
	}

	m.uploads.WithLabelValues(kind).Inc()
}

// LocationLookup — поиск локаций обслужен из source ("cache" или "geocoder").
func (m *Metrics) LocationLookup(source string) {
	if m == nil {
		return
	}

	m.locationHits.WithLabelValues(source).Inc()
}
