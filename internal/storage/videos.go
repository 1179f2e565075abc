package storage

import (
	"context"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

// VideoUpdate — редактируемые владельцем поля видео.
type VideoUpdate struct {
	Title       *string
	Description *string
	Location    *string
}

// VideoStorage — контракт репозитория видео.
// Списки упорядочены по created_at DESC, id DESC и содержат карточку автора.
type VideoStorage interface {
	CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	ListVideos(ctx context.Context, opts models.ListOptions) ([]models.Video, error)
	ListUserVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.Video, error)
	// ListFollowingVideos — видео авторов, на которых подписан followerID.
	ListFollowingVideos(ctx context.Context, followerID uuid.UUID, opts models.ListOptions) ([]models.Video, error)
	UpdateVideo(ctx context.Context, id uuid.UUID, update VideoUpdate) (*models.Video, error)
	// DeleteVideo удаляет запись и возвращает её (ключи объектов нужны для очистки бакета).
	DeleteVideo(ctx context.Context, id uuid.UUID) (*models.Video, error)
	// IncrementViews атомарно увеличивает views_count и возвращает новое значение.
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

// LikeStorage — лайки видео. Счётчик likes_count меняется в той же транзакции.
type LikeStorage interface {
	IsLiked(ctx context.Context, videoID, userID uuid.UUID) (bool, error)
	// ToggleLike ставит лайк, если его не было, иначе снимает.
	ToggleLike(ctx context.Context, videoID, userID uuid.UUID) (models.LikeState, error)
}
