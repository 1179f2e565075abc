package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// probeMethods — методы проб оркестратора; дёргаются каждые несколько секунд,
// поэтому их итоговая запись пишется на уровне Debug.
var probeMethods = map[string]struct{}{
	"/grpc.health.v1.Health/Check": {},
	"/grpc.health.v1.Health/Watch": {},
}

// UnaryLoggingInterceptor логирует unary-вызовы и кладёт обогащённый логгер в контекст.
//
// Формат:
//   - request_id из metadata x-request-id, иначе новый UUID;
//   - method, peer (IP:port или "-");
//   - после handler одна запись msg="grpc" с code и dur.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		var rid string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get("x-request-id"); len(v) > 0 && v[0] != "" {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
		}

		peerStr := "-"
		if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
			peerStr = p.Addr.String()
		}

		l := base.With(
			slog.String("request_id", rid),
			slog.String("method", info.FullMethod),
			slog.String("peer", peerStr),
		)
		ctx = log.Into(ctx, l)

		resp, err := handler(ctx, req)

		level := slog.LevelInfo
		if _, ok := probeMethods[info.FullMethod]; ok {
			level = slog.LevelDebug
		}

		l.Log(ctx, level, "grpc",
			slog.String("code", status.Code(err).String()),
			slog.Duration("dur", time.Since(start)),
		)

		return resp, err
	}
}
