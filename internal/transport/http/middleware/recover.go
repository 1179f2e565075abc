package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/RickkCastro/ElasNoJogo/internal/transport/http/errors"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
)

// Recover перехватывает panic и отвечает 500/internal. Детали паники не утекают клиенту.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic",
						slog.String("path", r.URL.Path),
						slog.Any("reason", rec),
					)
					apierrors.WriteError(w, r, fmt.Errorf("panic: %v", rec))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
