package interceptors

import (
	"log/slog"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
)

// ServerOptions собирает стандартную цепочку unary-интерсепторов сервера:
// recover -> logging -> timeout -> prometheus.
// Recover всегда первое звено.
func ServerOptions(l *slog.Logger, timeout time.Duration) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			Recover(l),
			UnaryLoggingInterceptor(l),
			WithTimeout(timeout),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	}
}
