package storage

import (
	"context"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

// UserStorage выполняет операции над учётными записями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя. ErrAlreadyExists — email занят.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет хэш нового refresh-токена.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит refresh-токен по хэшу.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// RevokeRefreshToken отзывает токен, если он ещё активен.
	// (true, nil) — отозван сейчас; (false, nil) — уже был отозван; ErrNotFound — нет такого.
	RevokeRefreshToken(ctx context.Context, hash string) (bool, error)
	// DeleteExpiredTokens удаляет просроченные токены и возвращает их количество.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
