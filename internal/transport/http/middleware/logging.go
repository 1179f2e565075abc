package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/RickkCastro/ElasNoJogo/pkg/log"
)

// Logging кладёт request-scoped логгер в контекст и пишет одну запись на запрос.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get("X-Request-Id"); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}

			r = r.WithContext(log.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.code()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			}

			log.From(r.Context()).LogAttrs(r.Context(), slog.LevelInfo, "http", attrs...)
		})
	}
}
