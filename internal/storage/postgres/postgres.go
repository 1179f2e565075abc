// postgres предоставляет реализацию storage.Storage на базе PostgreSQL (pgx/v5).
//
// users.go, refresh_tokens.go — учётные записи и refresh-токены;
// profiles.go, contacts.go — профили и их контакты;
// videos.go, likes.go — видео, счётчики, лайки;
// follows.go — подписки.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

// New создает и инициализирует пул соединений к PostgreSQL.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Ping проверяет доступность БД (используется readiness-пробой).
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close закрывает пул соединений.
// Должен вызываться при остановке приложения.
func (s *Storage) Close() {
	s.db.Close()
}

// mapPgError переводит ошибки PostgreSQL в sentinel-ошибки storage.
// pgx.ErrNoRows -> ErrNotFound; unique -> ErrAlreadyExists;
// foreign key -> ErrNotFound (ссылка на несуществующую запись);
// check -> ErrInvalidArgument. Прочие ошибки возвращаются как есть.
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return storage.ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return storage.ErrNotFound
		case pgerrcode.CheckViolation:
			return storage.ErrInvalidArgument
		}
	}

	return err
}

// withTx выполняет fn в транзакции: commit при успехе, rollback при ошибке.
func (s *Storage) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Storage)(nil)
