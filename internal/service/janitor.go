package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RickkCastro/ElasNoJogo/pkg/log"
)

// StartTokenJanitor периодически удаляет просроченные refresh-токены.
// Первый проход выполняется сразу; останавливается по ctx.
func (s *Service) StartTokenJanitor(ctx context.Context) error {
	const op = "service/janitor/StartTokenJanitor"

	interval := s.cfg.Auth.CleanupInterval
	if interval <= 0 {
		return fmt.Errorf("%s: non-positive interval %s", op, interval)
	}

	lg := log.From(ctx)
	lg.Info("janitor_start",
		slog.String("op", op),
		slog.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.cleanupOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			lg.Info("janitor_stop", slog.String("op", op))
			return nil
		case <-ticker.C:
			s.cleanupOnce(ctx)
		}
	}
}

// cleanupOnce — один проход очистки; ошибки только логируются.
func (s *Service) cleanupOnce(ctx context.Context) {
	const op = "service/janitor/cleanupOnce"

	lg := log.From(ctx)

	n, err := s.storage.DeleteExpiredTokens(ctx, time.Now().UTC())
	if err != nil {
		lg.Warn("janitor_tick_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return
	}

	if n > 0 {
		lg.Info("janitor_deleted",
			slog.String("op", op),
			slog.Int64("deleted", n),
		)
	}
}
