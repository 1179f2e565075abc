package storage

import (
	"context"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

// FollowStorage — подписки между профилями.
type FollowStorage interface {
	// Follow создаёт подписку. ErrAlreadyExists — уже подписан,
	// ErrNotFound — профиля нет, ErrInvalidArgument — подписка на себя.
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	// Unfollow удаляет подписку; false — подписки не было.
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	// Followers — кто подписан на userID (новые первыми).
	Followers(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.FollowEntry, error)
	// Following — на кого подписан userID (новые первыми).
	Following(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.FollowEntry, error)
	FollowCounts(ctx context.Context, userID uuid.UUID) (followers, following int64, err error)
}
