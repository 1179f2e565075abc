package middleware

import (
	"net/http"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics фиксирует длительность и статус запроса по шаблону маршрута chi
// (например, /videos/{id}), чтобы не плодить метки на каждый id.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}

			m.ObserveHTTP(route, r.Method, sw.code(), time.Since(start))
		})
	}
}
