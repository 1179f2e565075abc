package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/RickkCastro/ElasNoJogo/internal/cache"
	"github.com/RickkCastro/ElasNoJogo/internal/config"
	"github.com/RickkCastro/ElasNoJogo/internal/geocode"
	"github.com/RickkCastro/ElasNoJogo/internal/metrics"
	"github.com/RickkCastro/ElasNoJogo/internal/service"
	"github.com/RickkCastro/ElasNoJogo/internal/storage/minio"
	"github.com/RickkCastro/ElasNoJogo/internal/storage/postgres"
	apihttp "github.com/RickkCastro/ElasNoJogo/internal/transport/http"
	"github.com/RickkCastro/ElasNoJogo/pkg/interceptors"
	logctx "github.com/RickkCastro/ElasNoJogo/pkg/log"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	// .env не обязателен: переменные окружения процесса имеют приоритет.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv_load_failed", slog.String("err", err.Error()))
	}

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting elas-no-jogo", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.Postgres.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	log.Info("postgres_connected")

	s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
	media, err := minio.New(s3Ctx, cfg)
	s3Cancel()
	if err != nil {
		log.Error("minio_connect_failed", slog.String("err", err.Error()))
		store.Close()
		os.Exit(1)
	}
	log.Info("minio_connected")

	m := metrics.New(prometheus.DefaultRegisterer)

	svc := service.New(store, media, cfg)
	svc.SetMetrics(m)
	svc.SetGeocoder(geocode.New(nil, cfg.Geocode))

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rCtx, rCancel := context.WithTimeout(rootCtx, 5*time.Second)
		rdb, err = cache.NewRedisClient(rCtx, cfg.Redis.URL)
		rCancel()
		if err != nil {
			// Redis необязателен.
			log.Warn("redis_connect_failed", slog.String("err", err.Error()))
		} else {
			svc.SetRefreshCache(cache.NewRefreshCache(rdb, cfg.Redis.RefreshPrefix))
			svc.SetLocationCache(cache.NewLocationCache(rdb, cfg.Redis.LocationPrefix, cfg.Geocode.CacheTTL))
			log.Info("redis_connected")
		}
	}

	log.Info("service_initialized")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := svc.StartTokenJanitor(logctx.Into(rootCtx, log)); err != nil {
			log.Error("janitor_failed", slog.String("err", err.Error()))
		}
	}()

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}

		if err := media.Ping(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apihttp.NewRouter(svc, apihttp.Options{
		Logger:   log,
		Metrics:  m,
		Timeout:  cfg.Timeouts.HTTP,
		BasePath: cfg.HTTP.BasePath,
	}))

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr))

	grpcServer := grpc.NewServer(interceptors.ServerOptions(log, cfg.Timeouts.Service)...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}

	grpc_prometheus.Register(grpcServer)

	grpcAddr := cfg.GRPC.Addr()
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("grpc_listen_failed", slog.String("addr", grpcAddr), slog.String("err", err.Error()))
		_ = ln.Close()
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", grpcAddr))

	serveErrCh := make(chan error, 2)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
	}()

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("serve_failed", slog.String("err", err.Error()))
	}

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	atomic.StoreInt32(&ready, 0)
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	wg.Wait()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("redis_close_failed", slog.String("err", err.Error()))
		}
	}

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
