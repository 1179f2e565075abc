// log хранит request-scoped *slog.Logger в context.Context.
//
// Логгер кладётся в контекст транспортом (HTTP-мидлвар Logging,
// gRPC-интерсептор UnaryLoggingInterceptor) и достаётся в сервисах через From.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}

// With обогащает логгер из контекста атрибутами и кладёт результат обратно.
// Удобно, когда id пользователя становится известен глубже по стеку (AuthBearer).
func With(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}

	return Into(ctx, From(ctx).With(args...))
}
