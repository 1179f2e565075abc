package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/jackc/pgx/v5"
)

// SaveRefreshToken сохраняет хэш нового refresh-токена.
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const op = "storage/postgres/refresh_tokens/SaveRefreshToken"

	q := `
	INSERT INTO refresh_tokens (token_hash, user_id, created_at, expires_at, revoked)
	VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, q,
		token.RefreshTokenHash,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
		token.Revoked,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return nil
}

// RefreshTokenByHash находит refresh-токен по хэшу.
func (s *Storage) RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	const op = "storage/postgres/refresh_tokens/RefreshTokenByHash"

	q := `
	SELECT token_hash, user_id, created_at, expires_at, revoked
	FROM refresh_tokens
	WHERE token_hash = $1
	`

	var token models.RefreshToken
	err := s.db.QueryRow(ctx, q, hash).Scan(
		&token.RefreshTokenHash,
		&token.UserID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.Revoked,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return &token, nil
}

// RevokeRefreshToken отзывает токен, только если он ещё активен.
//
//	(true, nil)  — токен был активен и отозван сейчас;
//	(false, nil) — токен существует, но уже был отозван;
//	(false, ErrNotFound) — токен не найден.
func (s *Storage) RevokeRefreshToken(ctx context.Context, hash string) (bool, error) {
	const op = "storage/postgres/refresh_tokens/RevokeRefreshToken"

	const upd = `
	UPDATE refresh_tokens
	SET revoked = TRUE
	WHERE token_hash = $1 AND revoked = FALSE
	RETURNING token_hash
	`

	var got string
	err := s.db.QueryRow(ctx, upd, hash).Scan(&got)
	if err == nil {
		return true, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var revoked bool
	err = s.db.QueryRow(ctx, `SELECT revoked FROM refresh_tokens WHERE token_hash = $1`, hash).Scan(&revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return false, nil
}

// DeleteExpiredTokens удаляет просроченные токены.
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage/postgres/refresh_tokens/DeleteExpiredTokens"

	tag, err := s.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}
