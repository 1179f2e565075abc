package service

import (
	"context"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
)

// LikeState возвращает счётчик лайков видео и отметку пользователя.
// Для анонимного пользователя (uuid.Nil) Liked всегда false.
func (s *Service) LikeState(ctx context.Context, videoID, userID uuid.UUID) (models.LikeState, error) {
	const op = "service/likes/LikeState"

	lg := log.From(ctx).With("op", op, "video_id", videoID.String())

	if videoID == uuid.Nil {
		lg.Warn("invalid argument: empty video_id")
		return models.LikeState{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	v, err := s.storage.VideoByID(ctx, videoID)
	if err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, storageErr(lg, "VideoByID", err))
	}

	state := models.LikeState{Count: v.LikesCount}

	if userID == uuid.Nil {
		return state, nil
	}

	liked, err := s.storage.IsLiked(ctx, videoID, userID)
	if err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, storageErr(lg, "IsLiked", err))
	}
	state.Liked = liked

	return state, nil
}

// ToggleLike ставит или снимает лайк и возвращает итоговое состояние.
// Счётчик не уходит ниже нуля.
func (s *Service) ToggleLike(ctx context.Context, videoID, userID uuid.UUID) (models.LikeState, error) {
	const op = "service/likes/ToggleLike"

	lg := log.From(ctx).With("op", op, "video_id", videoID.String(), "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("unauthenticated like")
		return models.LikeState{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if videoID == uuid.Nil {
		lg.Warn("invalid argument: empty video_id")
		return models.LikeState{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	state, err := s.storage.ToggleLike(ctx, videoID, userID)
	if err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, storageErr(lg, "ToggleLike", err))
	}

	s.metrics.LikeToggled(state.Liked)

	return state, nil
}
