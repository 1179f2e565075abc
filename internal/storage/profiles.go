package storage

import (
	"context"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

// ProfileUpdate — частичный апдейт профиля.
// Обновляются только непустые указатели.
type ProfileUpdate struct {
	Username    *string
	FullName    *string
	Bio         *string
	ProfileType *models.ProfileType
	Location    *string
	Position    *string
}

// Empty сообщает, что апдейт не содержит ни одного поля.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.FullName == nil && u.Bio == nil &&
		u.ProfileType == nil && u.Location == nil && u.Position == nil
}

// ProfileStorage — контракт репозитория профилей.
type ProfileStorage interface {
	// CreateProfile создаёт профиль. ErrAlreadyExists — профиль или username уже есть.
	CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// ProfileByID возвращает профиль по user_id.
	ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// ProfileByUsername возвращает профиль по username (без учёта регистра).
	ProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	// UpdateProfile выполняет частичное обновление и сдвигает updated_at.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.Profile, error)
	// ConfirmAvatarUpload фиксирует avatar_key и avatar_url после проверки объекта.
	ConfirmAvatarUpload(ctx context.Context, userID uuid.UUID, key, publicURL string) (*models.Profile, error)
}

// ContactStorage — контакты профиля.
type ContactStorage interface {
	// ContactsByProfile возвращает контакты, упорядоченные по order_index.
	ContactsByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Contact, error)
	// ReplaceContacts атомарно заменяет набор контактов профиля.
	ReplaceContacts(ctx context.Context, profileID uuid.UUID, contacts []models.Contact) ([]models.Contact, error)
}
