// models содержит доменные сущности elas-no-jogo.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись (email + хэш пароля).
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken — серверная запись refresh-токена. Сам токен не хранится, только его хэш.
type RefreshToken struct {
	RefreshTokenHash string
	UserID           uuid.UUID
	CreatedAt        time.Time
	ExpiresAt        time.Time
	Revoked          bool
}

// TokenPair — пара токенов, выдаваемая при регистрации/входе/обновлении.
//   - AccessToken — короткоживущий JWT;
//   - RefreshToken — случайный секрет для выпуска новой пары;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}
