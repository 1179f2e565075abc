package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/RickkCastro/ElasNoJogo/internal/service"
	apierrors "github.com/RickkCastro/ElasNoJogo/internal/transport/http/errors"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
)

// TokenValidator проверяет access-токен.
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (uuid.UUID, string, error)
}

// AuthBearer проверяет Authorization: Bearer <jwt> и кладёт id пользователя в контекст.
// Запрос без заголовка проходит анонимно; невалидный токен сразу даёт 401.
func AuthBearer(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			uid, _, err := v.ValidateToken(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := WithUserID(r.Context(), uid)
			ctx = log.With(ctx, "user_id", uid.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth отвечает 401, если AuthBearer не установил пользователя.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFrom(r.Context()) == uuid.Nil {
				apierrors.WriteError(w, r, service.ErrUnauthenticated)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}
