// interceptors предоставляет набор gRPC-интерсепторов для серверной стороны.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout возвращает unary-интерсептор, который навешивает таймаут d на контекст
// запроса при его отсутствии. Существующий дедлайн не переопределяется.
//
// Контракт:
//  1. d <= 0 — handler вызывается с исходным контекстом;
//  2. deadline уже задан во входящем ctx — не модифицирует его;
//  3. иначе — context.WithTimeout(ctx, d) с гарантированным cancel().
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if d <= 0 {
			return handler(ctx, req)
		}

		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}
