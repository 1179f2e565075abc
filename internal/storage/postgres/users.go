package postgres

import (
	"context"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

// SaveUser создаёт нового пользователя. Email уникален.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage/postgres/users/SaveUser"

	q := `
	INSERT INTO users (id, email, password_hash, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, q, user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return nil
}

// UserByEmail находит пользователя по email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage/postgres/users/UserByEmail"

	q := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`

	var u models.User
	err := s.db.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return &u, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage/postgres/users/UserByID"

	q := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`

	var u models.User
	err := s.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return &u, nil
}
