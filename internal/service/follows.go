package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
)

func validFollowPair(followerID, followingID uuid.UUID) error {
	if followerID == uuid.Nil {
		return ErrUnauthenticated
	}

	if followingID == uuid.Nil || followerID == followingID {
		return ErrInvalidArgument
	}

	return nil
}

// Follow подписывает followerID на followingID.
// Повторная подписка не ошибка.
func (s *Service) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	const op = "service/follows/Follow"

	lg := log.From(ctx).With("op", op, "follower_id", followerID.String(), "following_id", followingID.String())

	if err := validFollowPair(followerID, followingID); err != nil {
		lg.Warn("invalid follow pair", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.storage.Follow(ctx, followerID, followingID)
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return fmt.Errorf("%s: %w", op, storageErr(lg, "Follow", err))
	}

	return nil
}

// Unfollow снимает подписку. Отсутствие подписки не ошибка.
func (s *Service) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	const op = "service/follows/Unfollow"

	lg := log.From(ctx).With("op", op, "follower_id", followerID.String(), "following_id", followingID.String())

	if err := validFollowPair(followerID, followingID); err != nil {
		lg.Warn("invalid follow pair", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.Unfollow(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("%s: %w", op, storageErr(lg, "Unfollow", err))
	}

	return nil
}

// ToggleFollow переключает подписку и возвращает обновлённую статистику профиля.
func (s *Service) ToggleFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.FollowStats, error) {
	const op = "service/follows/ToggleFollow"

	lg := log.From(ctx).With("op", op, "follower_id", followerID.String(), "following_id", followingID.String())

	if err := validFollowPair(followerID, followingID); err != nil {
		lg.Warn("invalid follow pair", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	removed, err := s.storage.Unfollow(ctx, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "Unfollow", err))
	}

	if !removed {
		err := s.storage.Follow(ctx, followerID, followingID)
		if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "Follow", err))
		}
	}

	stats, err := s.FollowStats(ctx, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

// FollowStats возвращает счётчики профиля targetID и подписан ли на него viewerID.
// viewerID может быть uuid.Nil.
func (s *Service) FollowStats(ctx context.Context, viewerID, targetID uuid.UUID) (*models.FollowStats, error) {
	const op = "service/follows/FollowStats"

	lg := log.From(ctx).With("op", op, "target_id", targetID.String())

	if targetID == uuid.Nil {
		lg.Warn("invalid argument: empty target_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	followers, following, err := s.storage.FollowCounts(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "FollowCounts", err))
	}

	stats := &models.FollowStats{Followers: followers, Following: following}

	if viewerID != uuid.Nil && viewerID != targetID {
		ok, err := s.storage.IsFollowing(ctx, viewerID, targetID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "IsFollowing", err))
		}
		stats.IsFollowing = ok
	}

	return stats, nil
}

// Followers — подписчики userID, новые первыми.
func (s *Service) Followers(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.FollowEntry, error) {
	const op = "service/follows/Followers"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	items, err := s.storage.Followers(ctx, userID, s.normalizeListOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "Followers", err))
	}

	return items, nil
}

// Following — на кого подписан userID, новые первыми.
func (s *Service) Following(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.FollowEntry, error) {
	const op = "service/follows/Following"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	items, err := s.storage.Following(ctx, userID, s.normalizeListOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "Following", err))
	}

	return items, nil
}
